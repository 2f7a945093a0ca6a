package faq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSort(t *testing.T) {
	faqs := []Faq{
		{ID: "c", Question: "Can I bring a friend?", Order: 2},
		{ID: "b", Question: "Do I need equipment?", Order: 1},
		{ID: "a", Question: "Are programs free?", Order: 1},
		{ID: "z", Question: "Anything else?"},
	}

	Sort(faqs)

	got := []string{}
	for _, f := range faqs {
		got = append(got, f.ID)
	}
	assert.Equal(t, []string{"z", "a", "b", "c"}, got)
}
