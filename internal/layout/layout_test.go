package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

const shell = "<html><head><title><!-- meta:title --></title></head><body><!-- slot:header --><main><!-- slot:body --></main><!-- slot:footer --></body></html>"

func TestCompose_ReplacesEachSlotOnce(t *testing.T) {
	out, err := Compose(shell, Parts{Header: "H", Footer: "F", Body: "B"}, Meta{Title: "T"})
	require.NoError(t, err)
	assert.Equal(t, "<html><head><title>T</title></head><body>H<main>B</main>F</body></html>", out)

	for _, s := range Slots() {
		assert.NotContains(t, out, s.Placeholder())
	}
	assert.NotContains(t, out, "<!--")
}

func TestCompose_InsertedTextIsNotRescanned(t *testing.T) {
	body := "<p>" + SlotFooter.Placeholder() + "</p>"
	out, err := Compose(shell, Parts{Header: "H", Footer: "F", Body: body}, Meta{})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, SlotFooter.Placeholder()), "body text keeps its literal marker")
	assert.Equal(t, 1, strings.Count(out, "F</body>"))
}

func TestCompose_MissingBodyIsFatal(t *testing.T) {
	layout := strings.Replace(shell, "<!-- slot:body -->", "", 1)
	_, err := Compose(layout, Parts{Header: "H", Footer: "F", Body: "B"}, Meta{})
	require.Error(t, err)

	var mp *MissingPlaceholderError
	require.True(t, errors.As(err, &mp))
	assert.Equal(t, SlotBody, mp.Slot)

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryTemplate, ce.Category())
	assert.True(t, ce.IsFatal())
	ph, _ := ce.Context().GetString("placeholder")
	assert.Equal(t, "body", ph)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "duplicate header",
			layout: shell + "<!-- slot:header -->",
			check: func(t *testing.T, err error) {
				var dp *DuplicatePlaceholderError
				require.ErrorAs(t, err, &dp)
				assert.Equal(t, 2, dp.Count)
			},
		},
		{
			name:   "unknown slot",
			layout: shell + "<!-- slot:sidebar -->",
			check: func(t *testing.T, err error) {
				var up *UnknownPlaceholderError
				require.ErrorAs(t, err, &up)
				assert.Equal(t, "<!-- slot:sidebar -->", up.Marker)
			},
		},
		{
			name:   "unknown meta",
			layout: shell + "<!-- meta:author -->",
			check: func(t *testing.T, err error) {
				var up *UnknownPlaceholderError
				require.ErrorAs(t, err, &up)
			},
		},
		{
			name:   "missing footer reported before body",
			layout: "<!-- slot:header -->",
			check: func(t *testing.T, err error) {
				var mp *MissingPlaceholderError
				require.ErrorAs(t, err, &mp)
				assert.Equal(t, SlotFooter, mp.Slot)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.layout)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestCompose_MetaEscapedAndRepeatable(t *testing.T) {
	layout := "<!-- meta:title -->|<!-- meta:title -->|<!-- meta:keywords -->" +
		"<!-- slot:header --><!-- slot:body --><!-- slot:footer -->"
	out, err := Compose(layout, Parts{}, Meta{Title: `A & "B"`, Keywords: "<x>"})
	require.NoError(t, err)
	assert.Equal(t, "A &amp; &#34;B&#34;|A &amp; &#34;B&#34;|&lt;x&gt;", out)
}

func TestCompose_ToleratesWhitespaceInMarkers(t *testing.T) {
	out, err := Compose("<!--slot:header--><!--  slot:body  --><!-- slot:footer -->", Parts{Header: "h", Body: "b", Footer: "f"}, Meta{})
	require.NoError(t, err)
	assert.Equal(t, "hbf", out)
}
