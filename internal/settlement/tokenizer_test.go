package settlement_test

import (
	"regexp"
	"testing"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/settlement"
	"github.com/stretchr/testify/assert"
)

func TestTokenizerTagOffsetValues(t *testing.T) {
	tok := settlement.NewTokenizer("T1 a x\r\nT1 b y\n*T1 c z\nT1")

	assert.Equal(t, []string{"y", "z"}, tok.TagOffsetValues("T1", 1, 2))
	assert.Nil(t, tok.TagOffsetValues("T1", 4, 2))
	assert.Empty(t, tok.TagOffsetValues("T1", 3, 2))
}

func TestTokenizerGroupedValues(t *testing.T) {
	re := regexp.MustCompile(`G\s+S(\d+)\s+\*?(\d+)`)
	tok := settlement.NewTokenizer("G S01 1 G S02 *2\nG S01 3\nG S02 4 G S03 5")

	assert.Equal(t, []string{"12", "345"}, tok.GroupedValues(re, "01"))
	assert.Empty(t, settlement.NewTokenizer("nothing").GroupedValues(re, "01"))
}

func TestTokenizerSections(t *testing.T) {
	tok := settlement.NewTokenizer("intro\nBEGIN one\nEND\nBEGIN two\nEND\nBEGIN three")

	sections := tok.Sections(regexp.MustCompile(`BEGIN`), "END")
	assert.Equal(t, []string{"BEGIN one\n", "BEGIN two\n", "BEGIN three"}, sections)
}
