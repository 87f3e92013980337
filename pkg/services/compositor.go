package services

import (
	"errors"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"portfolio-site/pkg/config"
	"portfolio-site/pkg/logfields"
)

const fragmentCachePrefix = "fragment:"

// Fragment is shared markup inserted wherever Marker occurs in a template
type Fragment struct {
	Marker  string
	Name    string
	Content string
}

// LoadFragments reads every configured component once; later calls in the same
// build reuse the cached content. A missing component yields empty content.
func (s *Service) LoadFragments() []Fragment {
	fragments := make([]Fragment, 0, len(s.config.Components))
	for _, comp := range s.config.Components {
		fragments = append(fragments, Fragment{
			Marker:  comp.Marker,
			Name:    comp.File,
			Content: s.loadComponent(comp),
		})
	}
	return fragments
}

func (s *Service) loadComponent(comp config.Component) string {
	key := fragmentCachePrefix + comp.File
	if cached, found := s.cache.Get(key); found {
		return cached.(string)
	}

	path := s.config.ComponentPath(comp.File)
	content := ""
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Component file not found", logfields.Path(path), logfields.Marker(comp.Marker), logfields.Error(err))
	} else {
		content = string(data)
	}
	s.cache.SetDefault(key, content)
	return content
}

// ResetFragments drops the loaded components so the next build rereads them
func (s *Service) ResetFragments() {
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, fragmentCachePrefix) {
			s.cache.Delete(key)
		}
	}
}

// MarkerIndentation returns the whitespace before marker on the first line where
// the marker is preceded only by whitespace, or "" when there is no such line.
func MarkerIndentation(page, marker string) string {
	for _, line := range strings.Split(page, "\n") {
		idx := strings.Index(line, marker)
		if idx < 0 {
			continue
		}
		prefix := line[:idx]
		if strings.TrimSpace(prefix) == "" {
			return prefix
		}
	}
	return ""
}

// splitLines splits on \n, \r\n and \r; a trailing line break adds no empty line
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

// IndentFragment prefixes every fragment line after the first with indentation.
// The first line takes the marker's place and inherits the marker line's indentation.
func IndentFragment(content, indentation string) string {
	lines := splitLines(content)
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(lines[0])
	for _, line := range lines[1:] {
		b.WriteByte('\n')
		b.WriteString(indentation)
		b.WriteString(line)
	}
	return b.String()
}

// Compose substitutes every fragment into page in order and returns the result
// together with the names of the fragments that were injected. All occurrences
// of a marker share the indentation of its first whitespace-prefixed occurrence.
func Compose(page string, fragments []Fragment) (string, []string) {
	var injected []string
	for _, frag := range fragments {
		if frag.Marker == "" || !strings.Contains(page, frag.Marker) {
			continue
		}
		indentation := MarkerIndentation(page, frag.Marker)
		page = strings.ReplaceAll(page, frag.Marker, IndentFragment(frag.Content, indentation))
		injected = append(injected, frag.Name)
	}
	return page, injected
}

var hrefRegex = regexp.MustCompile(`href="([^"]*)"|href='([^']*)'`)

var keepLinkPrefixes = []string{"http:", "https:", "//", "#", "mailto:", "tel:"}

// CleanLinks removes the .html suffix from internal href values so production
// URLs are extension-free. External, anchor, mailto and tel links are unchanged.
func CleanLinks(page string) string {
	return hrefRegex.ReplaceAllStringFunc(page, func(attr string) string {
		quote := attr[len("href=") : len("href=")+1]
		value := attr[len("href=")+1 : len(attr)-1]
		if !isInternalLink(value) || !strings.HasSuffix(value, ".html") {
			return attr
		}
		return "href=" + quote + strings.TrimSuffix(value, ".html") + quote
	})
}

func isInternalLink(value string) bool {
	lower := strings.ToLower(value)
	for _, prefix := range keepLinkPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	return true
}

// BuildPages renders every configured page. extra fragments are substituted
// after the configured components. Only output write failures are returned.
func (s *Service) BuildPages(production bool, extra ...Fragment) error {
	fragments := append(s.LoadFragments(), extra...)

	for _, page := range s.config.Pages {
		templatePath := s.config.TemplatePath(page.Template)
		data, err := os.ReadFile(templatePath)
		if err != nil {
			s.reportMissingTemplate(page, templatePath, production, err)
			continue
		}

		html, injected := Compose(string(data), fragments)
		for _, name := range injected {
			slog.Debug("Injected component", slog.String("component", name), logfields.Output(page.Output))
		}
		if production {
			html = CleanLinks(html)
		}

		target := s.config.OutputPath(page.Output)
		if err := writeOutput(target, []byte(html)); err != nil {
			return err
		}
		slog.Info("Generated page", logfields.Output(target), logfields.Count(len(injected)))
	}
	return nil
}

// reportMissingTemplate warns about a template that cannot be read. Outside the
// landing page, production builds only note it at debug level.
func (s *Service) reportMissingTemplate(page config.Page, path string, production bool, err error) {
	attrs := []any{logfields.Template(path), logfields.Error(err)}
	switch {
	case page.Template == s.config.LandingTemplate:
		slog.Warn("Landing page template not found, skipping", attrs...)
	case production && errors.Is(err, os.ErrNotExist):
		slog.Debug("Template not found, skipping", attrs...)
	default:
		slog.Warn("Template not found, skipping", attrs...)
	}
}
