package service

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickNeverRepeatsConsecutively(t *testing.T) {
	draws := []int{2, 2, 2, 0, 0, 1}
	i := 0
	rotator := NewTemplateRotatorWith(map[TemplateSet][]string{
		TemplatesWithLink: {"a {link}", "b {link}", "c {link}"},
	}, func(n int) int {
		v := draws[i%len(draws)]
		i++
		return v
	})

	assert.Equal(t, "c {link}", rotator.Pick(TemplatesWithLink))
	assert.Equal(t, "a {link}", rotator.Pick(TemplatesWithLink))
	assert.Equal(t, "b {link}", rotator.Pick(TemplatesWithLink))
}

func TestPickTracksSetsIndependently(t *testing.T) {
	rotator := NewTemplateRotatorWith(map[TemplateSet][]string{
		TemplatesWithLink: {"x {link}", "y {link}"},
		TemplatesNoLink:   {"p", "q"},
	}, func(int) int { return 0 })

	assert.Equal(t, "x {link}", rotator.Pick(TemplatesWithLink))
	assert.Equal(t, "p", rotator.Pick(TemplatesNoLink))
}

func TestPickSingleTemplate(t *testing.T) {
	rotator := NewTemplateRotatorWith(map[TemplateSet][]string{
		TemplatesNoLink: {"only"},
	}, func(int) int { return 0 })

	assert.Equal(t, "only", rotator.Pick(TemplatesNoLink))
	assert.Equal(t, "only", rotator.Pick(TemplatesNoLink))
	assert.Equal(t, "", rotator.Pick(TemplatesWithLink))
}

func TestDefaultTemplatesRotateUnderConcurrency(t *testing.T) {
	rotator := NewTemplateRotator()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tmpl := rotator.Pick(TemplatesWithLink)
			assert.Contains(t, tmpl, "{link}")
		}()
	}
	wg.Wait()

	prev := rotator.Pick(TemplatesWithLink)
	for i := 0; i < 100; i++ {
		next := rotator.Pick(TemplatesWithLink)
		assert.NotEqual(t, prev, next)
		prev = next
	}
}

func TestRender(t *testing.T) {
	rotator := NewTemplateRotator()
	for _, tmpl := range defaultTemplates[TemplatesWithLink] {
		out := rotator.Render(tmpl, "https://l.example/s/abc")
		assert.Contains(t, out, "https://l.example/s/abc")
		assert.False(t, strings.Contains(out, "{link}"))
	}
	for _, tmpl := range defaultTemplates[TemplatesNoLink] {
		assert.NotContains(t, tmpl, "{link}")
	}
}
