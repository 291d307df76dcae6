package dapi

// Signer produces a detached signature over a command's exact text.
type Signer interface {
	Sign(data []byte) (string, error)
}

// SignerFunc adapts a function to the Signer interface.
type SignerFunc func(data []byte) (string, error)

// Sign calls f(data).
func (f SignerFunc) Sign(data []byte) (string, error) { return f(data) }

// SignerFactory builds the signing capability on first use.
type SignerFactory func() (Signer, error)
