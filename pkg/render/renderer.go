package render

import (
	"context"

	"github.com/CodeSapiens-in/formengine/pkg/answers"
	"github.com/CodeSapiens-in/formengine/pkg/schema"
)

// Renderer serializes a form's widget plan into a byte representation (HTML,
// terminal transcript, etc.). Implementations build their widgets through
// BuildWidgets so every output medium interprets the schema identically.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form schema.Form, store *answers.Store, options RenderOptions) ([]byte, error)
}
