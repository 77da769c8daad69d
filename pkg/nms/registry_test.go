/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package nms

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	tag string
}

func (s *stubProvider) Tag() string { return s.tag }
func (s *stubProvider) EntityKey(entity string) string { return entity }

func (s *stubProvider) SpawnerItemData(_ string) (Compound, error) {
	return Compound{}, nil
}

func (s *stubProvider) EntityFromSpawnerItem(_ Compound) (string, error) {
	return "", ErrUnknownEntity
}

func stubFactory(tag string) Factory {
	return func() (Provider, error) {
		return &stubProvider{tag: tag}, nil
	}
}

func TestRegistry_RegisterRejectsInvalid(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	require.Error(t, reg.Register("", stubFactory("")))
	require.Error(t, reg.Register("v1_16_R3", nil))
	require.NoError(t, reg.Register("v1_16_R3", stubFactory("v1_16_R3")))

	err := reg.Register("v1_16_R3", stubFactory("v1_16_R3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_TagsKeepRegistrationOrder(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	require.NoError(t, reg.Register("v1_17_R1", stubFactory("v1_17_R1")))
	require.NoError(t, reg.Register("v1_8_R3", stubFactory("v1_8_R3")))
	require.NoError(t, reg.Register("v1_16_R3", stubFactory("v1_16_R3")))

	assert.Equal(t, []string{"v1_17_R1", "v1_8_R3", "v1_16_R3"}, reg.Tags())
	assert.True(t, reg.Has("v1_8_R3"))
	assert.False(t, reg.Has("v1_9_R1"))

	tags := reg.Tags()
	tags[0] = "mutated"
	assert.Equal(t, "v1_17_R1", reg.Tags()[0], "Tags must return a copy")
}

//nolint:funlen // Table-driven tests are expected to be long
func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	reg := NewRegistry()
	require.NoError(t, reg.Register("v1_16_R3", stubFactory("v1_16_R3")))
	require.NoError(t, reg.Register("v1_17_R1", func() (Provider, error) { return nil, boom }))
	require.NoError(t, reg.Register("v1_18_R1", func() (Provider, error) { return nil, nil }))
	require.NoError(t, reg.Register("v1_18_R2", func() (Provider, error) {
		var p *stubProvider

		return p, nil
	}))
	require.NoError(t, reg.Register("v1_19_R1", stubFactory("v1_12_R1")))
	require.NoError(t, reg.Register("v1_19_R2", func() (Provider, error) { panic("bad adapter") }))

	tests := []struct {
		name    string
		tag     string
		outcome Outcome
		sentErr error
	}{
		{name: "found", tag: "v1_16_R3", outcome: OutcomeFound},
		{name: "not registered", tag: "v1_19_R3", outcome: OutcomeNotFound, sentErr: ErrAdapterNotFound},
		{name: "factory error", tag: "v1_17_R1", outcome: OutcomeConstructionError, sentErr: ErrAdapterConstructionFailed},
		{name: "nil provider", tag: "v1_18_R1", outcome: OutcomeWrongCapability, sentErr: ErrAdapterWrongCapability},
		{name: "typed nil provider", tag: "v1_18_R2", outcome: OutcomeWrongCapability, sentErr: ErrAdapterWrongCapability},
		{name: "provider for other tag", tag: "v1_19_R1", outcome: OutcomeWrongCapability, sentErr: ErrAdapterWrongCapability},
		{name: "factory panics", tag: "v1_19_R2", outcome: OutcomeConstructionError, sentErr: ErrAdapterConstructionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := reg.Lookup(tt.tag)

			assert.Equal(t, tt.tag, res.Tag)
			assert.Equal(t, tt.outcome, res.Outcome)

			if tt.outcome == OutcomeFound {
				assert.True(t, res.Ok())
				require.NotNil(t, res.Provider)
				assert.Equal(t, tt.tag, res.Provider.Tag())
				assert.NoError(t, res.Err)

				return
			}

			assert.False(t, res.Ok())
			assert.Nil(t, res.Provider)
			require.Error(t, res.Err)
			assert.True(t, errors.Is(res.Err, tt.sentErr), "unexpected error: %v", res.Err)
		})
	}
}

func TestRegistry_FactoryErrorKeepsCause(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	reg := NewRegistry()
	require.NoError(t, reg.Register("v1_17_R1", func() (Provider, error) { return nil, boom }))

	res := reg.Lookup("v1_17_R1")

	assert.True(t, errors.Is(res.Err, boom))
	assert.Contains(t, res.Err.Error(), "v1_17_R1")
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "found", OutcomeFound.String())
	assert.Equal(t, "not_found", OutcomeNotFound.String())
	assert.Equal(t, "wrong_capability", OutcomeWrongCapability.String())
	assert.Equal(t, "construction_error", OutcomeConstructionError.String())
	assert.Equal(t, "outcome(42)", Outcome(42).String())
}

func TestNormalizeEntity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cave_spider", NormalizeEntity("minecraft:cave_spider"))
	assert.Equal(t, "pig", NormalizeEntity("  PIG "))
	assert.Equal(t, "", NormalizeEntity(""))
}
