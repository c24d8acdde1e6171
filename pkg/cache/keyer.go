package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer produces cache keys. Keys embed a hash of every input that affects
// the result, so different options never share an entry.
type Keyer interface {
	DiagramKey(seedKey string, opts DiagramKeyOpts) string
	DecompositionKey(permKey string, lengths, heights map[string]string) string
	CoverKey(perm string, cycles map[string]string) string
	SpeedKey(permKey string, opts SpeedKeyOpts) string
}

// DiagramKeyOpts are the exploration options that change a diagram.
type DiagramKeyOpts struct {
	MaxDepth int  `json:"max_depth"`
	MaxNodes int  `json:"max_nodes"`
	Family   bool `json:"family"`
}

// SpeedKeyOpts are the options that change a speed estimate.
type SpeedKeyOpts struct {
	Experiments int    `json:"experiments"`
	Iterations  int    `json:"iterations"`
	Precision   uint   `json:"precision"`
	Seed        uint64 `json:"seed"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DiagramKey keys a diagram by the canonical key of its seed (or a hash of
// all seeds for a family) and the exploration bounds.
func (DefaultKeyer) DiagramKey(seedKey string, opts DiagramKeyOpts) string {
	return hashKey("diagram", seedKey, opts)
}

// DecompositionKey keys a cylinder decomposition. lengths and heights map
// labels to decimal integers; heights may be nil.
func (DefaultKeyer) DecompositionKey(perm string, lengths, heights map[string]string) string {
	return hashKey("cylinders", perm, lengths, heights)
}

// CoverKey keys a cover signature. perm is the literal (not canonical)
// permutation because cycles refer to its labels.
func (DefaultKeyer) CoverKey(perm string, cycles map[string]string) string {
	return hashKey("cover", perm, cycles)
}

// SpeedKey keys a speed estimate.
func (DefaultKeyer) SpeedKey(permKey string, opts SpeedKeyOpts) string {
	return hashKey("speed", permKey, opts)
}

// ScopedKeyer wraps a Keyer with a prefix, isolating for example several
// deployments sharing one Redis.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer selects
// the DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) DiagramKey(seedKey string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(seedKey, opts)
}

func (k *ScopedKeyer) DecompositionKey(perm string, lengths, heights map[string]string) string {
	return k.prefix + k.inner.DecompositionKey(perm, lengths, heights)
}

func (k *ScopedKeyer) CoverKey(perm string, cycles map[string]string) string {
	return k.prefix + k.inner.CoverKey(perm, cycles)
}

func (k *ScopedKeyer) SpeedKey(permKey string, opts SpeedKeyOpts) string {
	return k.prefix + k.inner.SpeedKey(permKey, opts)
}

// String implements fmt.Stringer for log output.
func (k *ScopedKeyer) String() string { return fmt.Sprintf("scoped(%q)", k.prefix) }

// hashKey returns prefix:sha256(json(parts)). encoding/json sorts map keys,
// so equal maps give equal keys.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
