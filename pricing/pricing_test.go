package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"care-circle-api/models"
)

func TestFee(t *testing.T) {
	tests := []struct {
		name     string
		category models.ServiceCategory
		km       int
		hours    int
		want     int
	}{
		{"basic small task is free", models.CategoryBasic, 4, 3, 0},
		{"basic minimal task is free", models.CategoryBasic, 1, 1, 0},
		{"basic over distance is paid", models.CategoryBasic, 5, 3, 200},
		{"basic over hours is paid", models.CategoryBasic, 2, 4, 220},
		{"technical ignores hours", models.CategoryTechnical, 10, 99, 250},
		{"technical short trip", models.CategoryTechnical, 1, 1, 115},
		{"personal", models.CategoryPersonal, 2, 2, 440},
		{"personal long", models.CategoryPersonal, 10, 5, 900},
		{"unknown category falls back to zero", models.ServiceCategory("Mystery"), 10, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fee(tt.category, tt.km, tt.hours))
		})
	}
}

func TestFeeDeterministic(t *testing.T) {
	first := Fee(models.CategoryPersonal, 7, 3)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Fee(models.CategoryPersonal, 7, 3))
	}
}

func TestSmallTask(t *testing.T) {
	assert.True(t, SmallTask(4, 3))
	assert.False(t, SmallTask(5, 3))
	assert.False(t, SmallTask(4, 4))
	assert.True(t, SmallTask(1, 1))
}
