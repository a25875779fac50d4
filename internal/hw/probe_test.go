package hw

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSMI(t *testing.T) {
	out := "0, NVIDIA GeForce RTX 3080, 10240\n1, NVIDIA A100-SXM4-40GB, 40960\n"

	gpus := parseSMI(out)
	require.Len(t, gpus, 2)
	assert.Equal(t, GPU{Index: 0, Name: "NVIDIA GeForce RTX 3080", MemoryGB: 10}, gpus[0])
	assert.Equal(t, GPU{Index: 1, Name: "NVIDIA A100-SXM4-40GB", MemoryGB: 40}, gpus[1])
}

func TestParseSMIMalformed(t *testing.T) {
	assert.Nil(t, parseSMI(""))
	assert.Nil(t, parseSMI("garbage\n"))
	assert.Nil(t, parseSMI("x, name, notanumber\n"))

	// Valid lines survive among bad ones.
	gpus := parseSMI("bad line\n0, Tesla T4, 15360\n")
	require.Len(t, gpus, 1)
	assert.Equal(t, 15.0, gpus[0].MemoryGB)
}

func TestProbeReportsRAM(t *testing.T) {
	p, err := Probe(context.Background())
	require.NoError(t, err)
	assert.Greater(t, p.RAMTotalGB, 0.0)
	assert.GreaterOrEqual(t, p.RAMTotalGB, p.RAMAvailableGB)
	assert.NotEmpty(t, p.OS)
}
