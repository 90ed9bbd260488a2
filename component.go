package bladex

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
	"github.com/pthm/bladex/lib/compiler"
)

// A data model is a PHP class name, optionally namespaced.
var validDataModel = regexp2.MustCompile(`\A\\?[A-Za-z_]\w*(?:\\[A-Za-z_]\w*)*\z`, regexp2.None)

// Component registers a view as a custom tag.
//
// The tag defaults to the last dot-separated segment of the view name in
// kebab-case. A namespaced view keeps its namespace in the tag:
//
//	bladex.NewComponent("components.myAlert")        // <x-my-alert>
//	bladex.NewComponent("mail::components.button")   // <x-mail::button>
//	bladex.NewComponent("components.card").WithTag("panel")
//
// A data model is instantiated at render time with the merged arguments of
// the tag; its toArray() output is merged over them:
//
//	bladex.NewComponent("components.card").WithDataModel(`App\ViewModels\Card`)
type Component struct {
	view      string
	tag       string
	dataModel string
}

// NewComponent creates a component for the given view.
func NewComponent(view string) *Component {
	return &Component{
		view: view,
		tag:  defaultTag(view),
	}
}

// WithTag overrides the derived tag.
func (c *Component) WithTag(tag string) *Component {
	c.tag = tag
	return c
}

// WithDataModel sets the class whose toArray() output is merged into the
// component arguments.
func (c *Component) WithDataModel(model string) *Component {
	c.dataModel = model
	return c
}

// WithoutNamespace drops a "namespace::" part from the tag.
func (c *Component) WithoutNamespace() *Component {
	if i := strings.LastIndex(c.tag, "::"); i >= 0 {
		c.tag = c.tag[i+2:]
	}
	return c
}

// View returns the component's view name.
func (c *Component) View() string {
	return c.view
}

// Tag returns the component's tag, without prefix.
func (c *Component) Tag() string {
	return c.tag
}

// DataModel returns the component's data model class, if any.
func (c *Component) DataModel() string {
	return c.dataModel
}

// Descriptor returns the compiler's view of the component.
func (c *Component) Descriptor() compiler.Component {
	return compiler.Component{
		Tag:       c.tag,
		View:      c.view,
		DataModel: c.dataModel,
	}
}

// Validate checks that the component can be compiled.
func (c *Component) Validate() error {
	if c.view == "" || strings.ContainsAny(c.view, "'\\\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidView, c.view)
	}
	if err := compiler.ValidateTag(c.tag); err != nil {
		return fmt.Errorf("%w: view %q: %w", ErrInvalidTag, c.view, err)
	}
	if c.dataModel != "" {
		ok, err := validDataModel.MatchString(c.dataModel)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidDataModel, c.dataModel)
		}
	}
	return nil
}

// defaultTag derives a tag from a view name.
func defaultTag(view string) string {
	namespace := ""
	name := view
	if i := strings.Index(name, "::"); i >= 0 {
		namespace, name = name[:i], name[i+2:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}

	tag := kebab(name)
	if namespace != "" {
		tag = namespace + "::" + tag
	}
	return tag
}

// kebab converts myAlert, MyAlert and "my alert" to my-alert. Existing
// separators are kept.
func kebab(s string) string {
	var b strings.Builder
	wordStart := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			wordStart = true
			continue
		}
		if (unicode.IsUpper(r) || wordStart) && b.Len() > 0 {
			b.WriteByte('-')
		}
		wordStart = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
