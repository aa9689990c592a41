package vector

import (
	"math"
	"reflect"
	"testing"
)

func TestFloat32SliceToBytes(t *testing.T) {
	tests := []struct {
		name  string
		input []float32
	}{
		{
			name:  "empty slice",
			input: []float32{},
		},
		{
			name:  "single value",
			input: []float32{1.0},
		},
		{
			name:  "multiple values",
			input: []float32{1.0, 2.0, 3.0, 4.0, 5.0},
		},
		{
			name:  "negative values",
			input: []float32{-1.0, -2.0, -3.0, -4.0, -5.0},
		},
		{
			name:  "mixed values",
			input: []float32{-1.0, 0.0, 1.0, 3.14, -2.718},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Convert to bytes
			bytes, err := Float32SliceToBytes(test.input)
			if err != nil {
				t.Errorf("Float32SliceToBytes(%v) error: %v", test.input, err)
				return
			}

			// Convert back to float32 slice
			floats, err := BytesToFloat32Slice(bytes)
			if err != nil {
				t.Errorf("BytesToFloat32Slice(%v) error: %v", bytes, err)
				return
			}

			// Verify the result matches the input
			if !reflect.DeepEqual(test.input, floats) {
				t.Errorf("Expected %v, got %v", test.input, floats)
			}
		})
	}
}

func TestBytesToFloat32SliceRejectsCorruptHeader(t *testing.T) {
	valid, err := Float32SliceToBytes([]float32{1.0, 2.0})
	if err != nil {
		t.Fatalf("Float32SliceToBytes error: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "negative length",
			data: []byte{0xFF, 0xFF, 0xFF, 0xFF},
		},
		{
			name: "length exceeds payload",
			data: []byte{0xFF, 0xFF, 0xFF, 0x7F, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name: "truncated payload",
			data: valid[:len(valid)-2],
		},
		{
			name: "length smaller than payload",
			data: append(append([]byte{}, 0x01, 0x00, 0x00, 0x00), valid[4:]...),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := BytesToFloat32Slice(test.data); err == nil {
				t.Errorf("Expected error for corrupt data %v", test.data)
			}
		})
	}
}

func TestFloat64SliceToFloat32(t *testing.T) {
	input := []float64{0.1, -2.5, 3.0}
	narrowed := Float64SliceToFloat32(input)

	if len(narrowed) != len(input) {
		t.Fatalf("Expected %d values, got %d", len(input), len(narrowed))
	}
	for i, v := range input {
		if narrowed[i] != float32(v) {
			t.Errorf("Index %d: expected %v, got %v", i, float32(v), narrowed[i])
		}
	}

	if got := Float64SliceToFloat32(nil); len(got) != 0 {
		t.Errorf("Expected empty result for nil input, got %v", got)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float64
		wantErr  bool
	}{
		{
			name:     "identical vectors",
			a:        []float32{1.0, 2.0, 3.0},
			b:        []float32{1.0, 2.0, 3.0},
			expected: 1.0,
			wantErr:  false,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1.0, 0.0, 0.0},
			b:        []float32{0.0, 1.0, 0.0},
			expected: 0.0,
			wantErr:  false,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1.0, 2.0, 3.0},
			b:        []float32{-1.0, -2.0, -3.0},
			expected: -1.0,
			wantErr:  false,
		},
		{
			name:     "different length vectors",
			a:        []float32{1.0, 2.0, 3.0},
			b:        []float32{1.0, 2.0},
			expected: 0.0,
			wantErr:  true,
		},
		{
			name:     "zero vector",
			a:        []float32{0.0, 0.0, 0.0},
			b:        []float32{1.0, 2.0, 3.0},
			expected: 0.0,
			wantErr:  true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			similarity, err := CosineSimilarity(test.a, test.b)

			// Check error
			if (err != nil) != test.wantErr {
				t.Errorf("CosineSimilarity() error = %v, wantErr %v", err, test.wantErr)
				return
			}

			// If we expect an error, don't check the similarity value
			if test.wantErr {
				return
			}

			// Check similarity value
			if math.Abs(similarity-test.expected) > 1e-6 {
				t.Errorf("CosineSimilarity() = %v, want %v", similarity, test.expected)
			}
		})
	}
}
