package dex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseLearnSource(t *testing.T) {
	tests := []struct {
		code string
		want LearnSource
	}{
		{"7L1", LearnSource{Gen: 7, Method: MethodLevelUp, Level: 1}},
		{"3L50", LearnSource{Gen: 3, Method: MethodLevelUp, Level: 50}},
		{"6M", LearnSource{Gen: 6, Method: MethodMachine}},
		{"5T", LearnSource{Gen: 5, Method: MethodTutor}},
		{"3E", LearnSource{Gen: 3, Method: MethodEgg}},
		{"4S0", LearnSource{Gen: 4, Method: MethodEvent, EventIndex: 0}},
		{"5S12", LearnSource{Gen: 5, Method: MethodEvent, EventIndex: 12}},
		{"5D", LearnSource{Gen: 5, Method: MethodDreamWorld}},
		{"7V", LearnSource{Gen: 7, Method: MethodVirtualConsole}},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := ParseLearnSource(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.code, got.String())
		})
	}
}

func TestParseLearnSourceRejectsMalformed(t *testing.T) {
	for _, code := range []string{"", "7", "0M", "7X", "7L", "7Lx", "4S", "6M1", "3Eany"} {
		t.Run(code, func(t *testing.T) {
			_, err := ParseLearnSource(code)
			assert.Error(t, err)
		})
	}
}

func TestParseLearnSourceRejectsUnknownGen(t *testing.T) {
	tests := []struct {
		code string
	}{
		{"0L1"},
		{"8L1"},
		{"9M"},
		{"8S0"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			_, err := ParseLearnSource(tt.code)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "bad generation")
		})
	}

	src, err := ParseLearnSource("7M")
	require.NoError(t, err)
	assert.Equal(t, MaxSourceGen, src.Gen)
}

func TestLearnSourcesAcceptScalarOrList(t *testing.T) {
	var doc struct {
		One  LearnSources `yaml:"one"`
		Many LearnSources `yaml:"many"`
	}
	err := yaml.Unmarshal([]byte("one: 7M\nmany: [7L1, 6M]\n"), &doc)
	require.NoError(t, err)

	assert.Equal(t, LearnSources{{Gen: 7, Method: MethodMachine}}, doc.One)
	assert.Equal(t, LearnSources{
		{Gen: 7, Method: MethodLevelUp, Level: 1},
		{Gen: 6, Method: MethodMachine},
	}, doc.Many)
}

func TestLearnSourcesReportLine(t *testing.T) {
	var doc struct {
		Moves map[string]LearnSources `yaml:"moves"`
	}
	err := yaml.Unmarshal([]byte("moves:\n  tackle: [7L1]\n  growl: [9Q]\n"), &doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}
