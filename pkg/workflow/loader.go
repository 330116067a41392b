package workflow

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mediar-ai/deskflow/pkg/errs"
	"gopkg.in/yaml.v3"
)

// LoadSource fetches the raw bytes of a workflow document from a
// file://, http://, https://, or bare local path URL (§6.4).
func LoadSource(ctx context.Context, url string) ([]byte, error) {
	switch {
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidInput, "building workflow document request", err)
		}
		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Do(req)
		if err != nil {
			return nil, errs.Wrap(errs.InternalError, "fetching remote workflow document", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return nil, errs.New(errs.InternalError, "remote workflow document fetch failed").
				Context("status", resp.StatusCode).Context("url", url).Build()
		}
		return io.ReadAll(resp.Body)
	case strings.HasPrefix(url, "file://"):
		return os.ReadFile(strings.TrimPrefix(url, "file://"))
	default:
		return os.ReadFile(url)
	}
}

// IsTypeScriptModule reports whether url names a TypeScript workflow,
// which this engine delegates entirely to the Script Executor (§4.1.1
// step 1, §6.4).
func IsTypeScriptModule(url string) bool {
	return strings.HasSuffix(url, ".ts") || strings.HasSuffix(url, ".tsx")
}

// ParseYAML parses raw YAML bytes into a Document. The document may be a
// bare steps/variables/etc object or a wrapping
// {tool_name: execute_sequence, arguments: {...}} envelope (§6.4).
func ParseYAML(raw []byte) (Document, error) {
	var probe map[string]interface{}
	if err := yaml.Unmarshal(raw, &probe); err != nil {
		return Document{}, errs.Wrap(errs.InvalidInput, "parsing workflow YAML", err)
	}
	if toolName, ok := probe["tool_name"].(string); ok && toolName == "execute_sequence" {
		if args, ok := probe["arguments"]; ok {
			reRaw, err := yaml.Marshal(args)
			if err != nil {
				return Document{}, errs.Wrap(errs.InvalidInput, "re-marshalling execute_sequence arguments", err)
			}
			raw = reRaw
		}
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, errs.Wrap(errs.InvalidInput, "parsing workflow document body", err)
	}
	return doc, nil
}
