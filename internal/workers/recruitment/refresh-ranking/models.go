// internal/workers/recruitment/refresh-ranking/models.go
package refreshranking

type Output struct {
	Ranked      int    `json:"ranked"`
	Changed     bool   `json:"changed"`
	Fingerprint string `json:"fingerprint"`
	Version     int64  `json:"version,omitempty"`
}
