package cache

import "strconv"

// Keyer generates cache keys.
type Keyer interface {
	// SnapshotKey names the cached artifact snapshot of one source.
	SnapshotKey(source string) string

	// SceneKey names a rendered scene for a snapshot hash.
	SceneKey(snapshotHash string, opts SceneKeyOpts) string

	// DescribeKey names a cached enrichment reply for a message.
	DescribeKey(message string) string
}

// SceneKeyOpts holds the render options that change a scene's bytes.
type SceneKeyOpts struct {
	Format   string  `json:"format"`
	Zoom     float64 `json:"zoom"`
	PanX     float64 `json:"pan_x"`
	PanY     float64 `json:"pan_y"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Selected string  `json:"selected,omitempty"`
	Policy   string  `json:"policy,omitempty"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key layout.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) SnapshotKey(source string) string {
	return "snapshot:" + source
}

func (DefaultKeyer) SceneKey(snapshotHash string, opts SceneKeyOpts) string {
	return hashKey("scene", snapshotHash, opts)
}

func (DefaultKeyer) DescribeKey(message string) string {
	return "describe:" + Hash([]byte(message)) + ":" + strconv.Itoa(len(message))
}
