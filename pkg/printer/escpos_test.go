package printer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumns(t *testing.T) {
	assert.Equal(t, "TOTAL     $25.00", Columns("TOTAL", "$25.00", 16))
	assert.Equal(t, "Piñata   $9.00", Columns("Piñata", "$9.00", 14))
	assert.Equal(t, "LONGKEY $1", Columns("LONGKEY", "$1", 4))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Jalape", Truncate("Jalapeño grande", 6))
	assert.Equal(t, "Jalapeño", Truncate("Jalapeño", 8))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestDocument_ItemLineFitsWidth(t *testing.T) {
	doc := NewDocument(20)
	doc.Reset().ItemLine("Very long product name here", "$100.00")

	line := bytes.TrimPrefix(doc.Bytes(), []byte{ESC, '@'})
	assert.Equal(t, "Very long pr $100.00\n", string(line))
	assert.Len(t, bytes.TrimSuffix(line, []byte{LF}), 20)
}

func TestDocument_Commands(t *testing.T) {
	doc := NewDocument(0)
	assert.Equal(t, DefaultWidth, doc.Width())

	doc.SetBold(true).SetAlign(AlignCenter).Cut()
	assert.Equal(t, []byte{ESC, '@', ESC, 'E', 1, ESC, 'a', AlignCenter, GS, 'V', 0}, doc.Bytes())
}
