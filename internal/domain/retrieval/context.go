package retrieval

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"assistant-server/internal/config"
	"assistant-server/internal/domain/document"
)

// Source supplies retrievable documents and their decoded content.
type Source interface {
	ListReady(ctx context.Context) ([]document.Document, error)
	Content(ctx context.Context, doc document.Document) (string, error)
}

// Builder assembles the bounded retrieval context injected into the system
// prompt.
type Builder struct {
	cfg    *config.Config
	source Source
	log    zerolog.Logger
}

func NewBuilder(cfg *config.Config, source Source, log zerolog.Logger) *Builder {
	return &Builder{
		cfg:    cfg,
		source: source,
		log:    log.With().Str("component", "retrieval").Logger(),
	}
}

// BuildContext concatenates the content of ready text-like documents, each
// prefixed with a title marker, up to the configured character budget.
// Truncation is a hard cut at the boundary. Documents are included in store
// iteration order; no relevance ranking is applied. A store listing failure
// propagates; per-document read failures are logged and skipped.
func (b *Builder) BuildContext(ctx context.Context) (string, error) {
	docs, err := b.source.ListReady(ctx)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	budget := b.cfg.ContextMaxChars
	for _, doc := range docs {
		if !document.IsTextLike(doc.MimeType) {
			continue
		}

		content, err := b.source.Content(ctx, doc)
		if err != nil {
			b.log.Warn().Err(err).Str("document_id", doc.ID).Msg("skipping unreadable document")
			continue
		}
		if strings.TrimSpace(content) == "" {
			continue
		}

		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString("[Title: ")
		builder.WriteString(doc.Name)
		builder.WriteString("]\n")
		builder.WriteString(content)

		if builder.Len() >= budget {
			break
		}
	}

	assembled := builder.String()
	if len(assembled) > budget {
		assembled = assembled[:budget]
	}
	return strings.TrimSpace(assembled), nil
}

// ComposePrompt appends the retrieval context block to the base system
// prompt. An empty context leaves the base prompt untouched.
func ComposePrompt(basePrompt, retrievalContext string) string {
	base := strings.TrimSpace(basePrompt)
	if retrievalContext == "" {
		return base
	}

	var builder strings.Builder
	builder.WriteString(base)
	builder.WriteString("\n\nUse only the following reference context to answer. ")
	builder.WriteString("If the answer is not in the context, say you do not have that information.\n\n")
	builder.WriteString(retrievalContext)
	return builder.String()
}
