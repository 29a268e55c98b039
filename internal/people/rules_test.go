package people

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadingName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jane Smith", "Jane Smith"},
		{"Mary Ann McDonald", "Mary Ann McDonald"},
		{"Patrick O'Brien", "Patrick O'Brien"},
		{"Jane Smith, CPA", "Jane Smith"},
		{"Meet Mike", ""},
		{"Give Us A Call", ""},
		{"Unsupported Browser", ""},
		{"Our Services", ""},
		{"Chief Executive Officer", ""},
		{"Click Here Now", ""},
		{"Jane", ""},
		{"JANE SMITH", ""},
		{"Jane Smith Is Here Today", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, HeadingName(tt.in))
		})
	}
}

func TestCardName_RuleOrder(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain line", "Our Team\nJane Smith\nCEO", "Jane Smith"},
		{"leading", "Jane Smith is our founder", "Jane Smith"},
		{"middle initial", "Say hello to John Q. Public, CFO", "John Q. Public"},
		{"nothing", "Contact us for a quote", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CardName(tt.text))
		})
	}
}

func TestLinkName(t *testing.T) {
	assert.Equal(t, "Jane Smith", LinkName(" Jane Smith "))
	assert.Equal(t, "", LinkName("LinkedIn"))
	assert.Equal(t, "", LinkName("View Profile"))
}

func TestFindTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		who  string
		want string
	}{
		{"sibling line", "Chief Executive Officer", "", "Chief Executive Officer"},
		{"name removed", "Jane Smith, Co-Founder & CEO", "Jane Smith", "Co-Founder & CEO"},
		{"longest clause", "Director. Director of Operations", "", "Director of Operations"},
		{"lowercase prose ignored", "we lead the market in widgets", "", ""},
		{"none", "Loves hiking and dogs", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindTitle(tt.text, tt.who))
		})
	}
}

func TestFindTitle_LongClauseTrimmed(t *testing.T) {
	text := "With over twenty years of experience across the region she now serves as Managing Partner, leading client strategy for the firm"
	assert.Equal(t, "Managing Partner", FindTitle(text, ""))
}

func TestPotentialEmails(t *testing.T) {
	assert.Equal(t, []string{
		"jane@acme.com",
		"jane.obrien@acme.com",
		"janeobrien@acme.com",
		"jobrien@acme.com",
		"janeo@acme.com",
	}, PotentialEmails("Jane Ann O'Brien", "acme.com"))
	assert.Nil(t, PotentialEmails("Jane", "acme.com"))

	assert.ElementsMatch(t, []string{
		"john@acme.com",
		"john.doe@acme.com",
		"johndoe@acme.com",
		"jdoe@acme.com",
		"johnd@acme.com",
	}, PotentialEmails("John Doe", "acme.com"))
}

func TestAccept_SurnamesThatAreCommonWords(t *testing.T) {
	for _, name := range []string{"Grant Case", "Mark Sales", "Will Story", "Amy Head", "Tom Call"} {
		assert.True(t, Accept(name), name)
	}
	for _, heading := range []string{"Case Studies", "Sales Team", "Our Story", "Head Office", "Book Appointment"} {
		assert.False(t, Accept(heading), heading)
	}
}

func TestParseSearchTitle(t *testing.T) {
	ind, ok := ParseSearchTitle("Jane Smith - CEO - Acme Corp | LinkedIn")
	assert.True(t, ok)
	assert.Equal(t, "Jane Smith", ind.Name)
	assert.Equal(t, "CEO", ind.Title)
	assert.Equal(t, SourceLinkedInSearch, ind.Source)

	ind, ok = ParseSearchTitle("John Doe – President")
	assert.True(t, ok)
	assert.Equal(t, "President", ind.Title)

	_, ok = ParseSearchTitle("Acme Corp | LinkedIn")
	assert.False(t, ok)
}
