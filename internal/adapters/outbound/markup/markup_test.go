package markup_test

import (
	"os"
	"testing"

	"github.com/rsjslint/rsjslint/internal/adapters/outbound/markup"
	"github.com/rsjslint/rsjslint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, content string) domain.MarkupFile {
	t.Helper()
	m, err := markup.New().ExtractMarkup(domain.SourceFile{Path: "index.html", Kind: domain.KindMarkup, Content: content})
	require.NoError(t, err)
	return m
}

func find(m domain.MarkupFile, kind domain.SelectorKind, name string) (domain.Selector, bool) {
	for _, s := range m.Selectors {
		if s.Kind == kind && s.Name == name {
			return s, true
		}
	}
	return domain.Selector{}, false
}

func TestExtractMarkup_Selectors(t *testing.T) {
	m := extract(t, `<!DOCTYPE html>
<body>
  <div class='user-info card' id="profile"
       data-js-menu data-behavior="tabs modal" role="tablist">
  </div>
</body>`)

	s, ok := find(m, domain.SelectorClass, "user-info")
	require.True(t, ok)
	assert.Equal(t, 3, s.Line)
	assert.Equal(t, "index.html", s.File)
	assert.Equal(t, domain.KindMarkup, s.Source)

	_, ok = find(m, domain.SelectorClass, "card")
	assert.True(t, ok)

	s, ok = find(m, domain.SelectorID, "profile")
	require.True(t, ok)
	assert.Equal(t, 3, s.Line)

	s, ok = find(m, domain.SelectorData, "data-js-menu")
	require.True(t, ok)
	assert.Equal(t, 4, s.Line)

	s, ok = find(m, domain.SelectorData, "data-behavior")
	require.True(t, ok)
	assert.Equal(t, "tabs modal", s.Value)

	_, ok = find(m, domain.SelectorRole, "tablist")
	assert.True(t, ok)
	assert.Empty(t, m.Inline)
}

func TestExtractMarkup_InlineCode(t *testing.T) {
	m := extract(t, `<html>
<body>
  <button onclick="toggle()">Menu</button>
  <script>
    window.analytics = {};
  </script>
  <script src="/app.js"></script>
  <script type="application/json">{"a": 1}</script>
  <script type="text/x-template"><p>{{ name }}</p></script>
  <script></script>
  <div data-on="x" on="y"></div>
  <script type="module">import "./a.js";</script>
</body>
</html>`)

	assert.Equal(t, []domain.InlineCode{
		{Line: 3, Attribute: "onclick"},
		{Line: 4},
		{Line: 10},
		{Line: 12},
	}, m.Inline)
}

func TestExtractMarkup_TemplateValuesAreDynamic(t *testing.T) {
	m := extract(t, `<div class="card <%= state %>" id="{{ id }}" data-js="<%= kind %>"></div>`)

	s, ok := find(m, domain.SelectorClass, "card")
	require.True(t, ok)
	assert.False(t, s.Dynamic)

	var dynamic int
	for _, s := range m.Selectors {
		if s.Dynamic {
			dynamic++
		}
	}
	assert.Equal(t, 3, dynamic)
	_, ok = find(m, domain.SelectorClass, "state")
	assert.False(t, ok)
}

func TestExtractMarkup_Fixture(t *testing.T) {
	data, err := os.ReadFile("../../../../testdata/projects/violating/app/views/index.html")
	require.NoError(t, err)

	m := extract(t, string(data))
	s, ok := find(m, domain.SelectorClass, "user-info")
	require.True(t, ok)
	assert.Equal(t, 4, s.Line)
	assert.Len(t, m.Inline, 2)
}

func TestExtractMarkup_Empty(t *testing.T) {
	m := extract(t, "")
	assert.Empty(t, m.Selectors)
	assert.Empty(t, m.Inline)
}
