package prospect

import "sort"

// OrgCodeByID maps roster-source team ids to organization codes. The set is
// fixed at thirty organizations.
var OrgCodeByID = map[int]string{
	1:  "LAA",
	2:  "BAL",
	3:  "BOS",
	4:  "CHW",
	5:  "CLE",
	6:  "DET",
	7:  "KC",
	8:  "MIN",
	9:  "NYY",
	10: "ATH",
	11: "SEA",
	12: "TB",
	13: "TEX",
	14: "TOR",
	15: "ARI",
	16: "ATL",
	17: "CHC",
	18: "CIN",
	19: "COL",
	20: "MIA",
	21: "HOU",
	22: "LAD",
	23: "MIL",
	24: "WAS",
	25: "NYM",
	26: "PHI",
	27: "PIT",
	28: "STL",
	29: "SD",
	30: "SF",
}

// OrgIDs returns every roster-source team id in ascending order so fetch
// dispatch is deterministic.
func OrgIDs() []int {
	ids := make([]int, 0, len(OrgCodeByID))
	for id := range OrgCodeByID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
