package auditlog

import "context"

// Metadata names the environment and resource a command touched. Commands
// store it in their context and the root command copies it into the entry.
type Metadata struct {
	Environment  string
	ResourceType string
	ResourceName string
}

// over returns m with its empty fields taken from base.
func (m Metadata) over(base Metadata) Metadata {
	if m.Environment == "" {
		m.Environment = base.Environment
	}
	if m.ResourceType == "" {
		m.ResourceType = base.ResourceType
	}
	if m.ResourceName == "" {
		m.ResourceName = base.ResourceName
	}
	return m
}

type metadataKey struct{}

// WithMetadata returns a context carrying meta layered over any metadata ctx
// already holds.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, metadataKey{}, meta.over(MetadataFromContext(ctx)))
}

// MetadataFromContext returns the metadata attached with WithMetadata, or
// the zero value.
func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	meta, _ := ctx.Value(metadataKey{}).(Metadata)
	return meta
}
