package gadget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFunctions(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Functions
		wantErr bool
	}{
		{name: "single", input: "adb", want: FuncAdb},
		{name: "pair", input: "rndis,adb", want: FuncRndis | FuncAdb},
		{name: "whitespace", input: " mtp , adb ", want: FuncMtp | FuncAdb},
		{name: "none literal", input: "none", want: FuncNone},
		{name: "empty", input: "", want: FuncNone},
		{name: "all", input: "adb,accessory,mtp,midi,ptp,rndis,audio_source", want: FuncAdb | FuncAccessory | FuncMtp | FuncMidi | FuncPtp | FuncRndis | FuncAudioSource},
		{name: "unknown", input: "floppy", wantErr: true},
		{name: "partial unknown", input: "adb,floppy", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFunctions(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFunctionsString(t *testing.T) {
	assert.Equal(t, "none", FuncNone.String())
	assert.Equal(t, "adb", FuncAdb.String())
	assert.Equal(t, "adb,rndis", (FuncRndis | FuncAdb).String())
	assert.Equal(t, "adb,mtp,rndis", (FuncMtp | FuncRndis | FuncAdb).String())
}

func TestFunctionsBitValues(t *testing.T) {
	// The numeric values are a wire contract with HAL clients.
	assert.EqualValues(t, 1, FuncAdb)
	assert.EqualValues(t, 2, FuncAccessory)
	assert.EqualValues(t, 4, FuncMtp)
	assert.EqualValues(t, 8, FuncMidi)
	assert.EqualValues(t, 16, FuncPtp)
	assert.EqualValues(t, 32, FuncRndis)
	assert.EqualValues(t, 64, FuncAudioSource)
}

func TestFunctionsHas(t *testing.T) {
	f := FuncRndis | FuncAdb
	assert.True(t, f.Has(FuncAdb))
	assert.True(t, f.Has(FuncRndis|FuncAdb))
	assert.False(t, f.Has(FuncMtp))
	assert.False(t, f.Has(FuncAdb|FuncMtp))
}
