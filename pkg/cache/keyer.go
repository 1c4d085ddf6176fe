package cache

// ArtifactOpts are the render settings that change an artifact for the same
// DOT source.
type ArtifactOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// Keyer builds cache keys. The namespace is prepended to every key so a
// change in rendering code can invalidate old entries.
type Keyer struct {
	namespace string
}

// NewKeyer returns a keyer for namespace.
func NewKeyer(namespace string) Keyer {
	return Keyer{namespace: namespace}
}

// ArtifactKey returns the key of the artifact rendered from dot.
func (k Keyer) ArtifactKey(dot string, opts ArtifactOpts) string {
	return k.prefix() + hashKey("artifact", Hash([]byte(dot)), opts)
}

func (k Keyer) prefix() string {
	if k.namespace == "" {
		return ""
	}
	return k.namespace + ":"
}
