//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

// CharacterRole - one row of the end-of-run assignment table
type CharacterRole struct {
	Character string `json:"character"`
	Label     string `json:"label"`
	Role      int    `json:"role"`
}

// ProgressUpdate - what the run monitor websocket feeds per iteration
type ProgressUpdate struct {
	Iteration   int     `json:"iteration"`
	Total       int     `json:"total"`
	ChangeRatio float64 `json:"changeratio"`
	Elapsed     string  `json:"elapsed"`
}
