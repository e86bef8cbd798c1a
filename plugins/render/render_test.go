package render

import (
	"bytes"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferPool_TieredSizes(t *testing.T) {
	small := getBuffer(5)
	assert.GreaterOrEqual(t, small.Cap(), smallBufferSize)
	putBuffer(small, 5)

	medium := getBuffer(25)
	assert.GreaterOrEqual(t, medium.Cap(), mediumBufferSize)
	putBuffer(medium, 25)

	large := getBuffer(100)
	assert.GreaterOrEqual(t, large.Cap(), largeBufferSize)
	putBuffer(large, 100)

	putBuffer(nil, 1)
}

func TestExecute(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/greet.tmpl": {Data: []byte(`{{define "greet"}}hello {{pascal .}}{{end}}`)},
	}
	tmpl := MustParse(fsys, "templates/*.tmpl")

	out, err := Execute(tmpl, "greet", "pet_store", 1)
	require.NoError(t, err)
	assert.Equal(t, "hello PetStore", string(out))

	_, err = Execute(tmpl, "missing", nil, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestExecuteConcurrent(t *testing.T) {
	fsys := fstest.MapFS{
		"t.tmpl": {Data: []byte(`{{define "t"}}{{title .}}{{end}}`)},
	}
	tmpl := MustParse(fsys, "*.tmpl")

	var wg sync.WaitGroup
	results := make([][]byte, 32)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = Execute(tmpl, "t", "hello world", i)
		}()
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, "Hello World", string(r))
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() {
		MustParse(fstest.MapFS{"bad.tmpl": {Data: []byte(`{{define "x"}}{{end`)}}, "*.tmpl")
	})
}

func TestFormatGo(t *testing.T) {
	src := []byte("package models\nimport \"os\"\nfunc Now() time.Time { return time.Now() }\n")
	out, err := FormatGo("models.go", src)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\"time\"")
	assert.NotContains(t, string(out), "\"os\"")

	_, err = FormatGo("broken.go", []byte("package models\nfunc {"))
	require.Error(t, err)
}

func TestComment(t *testing.T) {
	assert.Equal(t, "", Comment("// ", "  "))
	assert.Equal(t, "// A pet.\n// Second line\n", Comment("// ", "A pet.\n  Second line  "))
	assert.Equal(t, " * x\n", Comment(" * ", "x"))
}

func TestFilePath(t *testing.T) {
	assert.Equal(t, "a.go", FilePath("", "a.go"))
	assert.Equal(t, "com/example/models/a.go", FilePath("com/example/models", "a.go"))
}

func BenchmarkBuffer_WithPool(b *testing.B) {
	for b.Loop() {
		buf := getBuffer(25)
		buf.WriteString("package main\n\nfunc main() {}\n")
		putBuffer(buf, 25)
	}
}

func BenchmarkBuffer_WithoutPool(b *testing.B) {
	for b.Loop() {
		buf := bytes.NewBuffer(make([]byte, 0, mediumBufferSize))
		buf.WriteString("package main\n\nfunc main() {}\n")
	}
}
