package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hay-kot/jtl/pkg/tuitest"
)

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(context.Background(), New(&buf))

	p := Ctx(ctx)
	p.Successf("config %s", "ok")
	p.Errorf("%d error(s)", 2)

	out := tuitest.StripANSI(buf.String())
	assert.Equal(t, "✔ config ok\n✘ 2 error(s)", out)
}
