package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/mahirjain10/resize-uploader/internal/types"
)

var anchorTemplate = template.Must(template.New("anchor").Parse(`{{range .}}<a href="{{.Href}}">{{.Text}}</a>{{end}}`))

// Container is the result area of the web page. It is shared by every submission,
// and each successful one overwrites it wholesale.
type Container struct {
	mu       sync.RWMutex
	children []types.Link
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Replace(link types.Link) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.children = c.children[:0:0]
	c.children = append(c.children, link)
}

// Links returns a copy of the current children.
func (c *Container) Links() []types.Link {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.Link, len(c.children))
	copy(out, c.children)
	return out
}

// HTML renders the children as anchors, escaped for the page.
func (c *Container) HTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := anchorTemplate.Execute(&buf, c.Links()); err != nil {
		return "", fmt.Errorf("failed to render result container: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Console prints each rendered link on its own line.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Replace(link types.Link) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s (%s)\n", link.Text, link.Href)
}
