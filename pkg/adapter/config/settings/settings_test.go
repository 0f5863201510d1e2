// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/parksmart/parknow/pkg/adapter/config/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestVerifyRange(t *testing.T) {
	minb, maxb := 1, 19
	v := 22
	p := &v
	err := settings.VerifyRange(&p, &minb, &maxb)
	require.NotNil(t, err)
	assert.False(t, err.LessThanMin)
	assert.Equal(t, 22, *err.Value)
	assert.Equal(t, 19, *p, "value is clamped")

	v = 0
	err = settings.VerifyRange(&p, &minb, &maxb)
	require.NotNil(t, err)
	assert.True(t, err.LessThanMin)
	assert.Equal(t, 1, *p)

	v = 7
	assert.Nil(t, settings.VerifyRange(&p, &minb, &maxb))

	var np *int
	assert.Nil(t, settings.VerifyRange(&np, &minb, &maxb))

	err = settings.VerifyRange(&p, &maxb, &minb)
	require.NotNil(t, err)
	assert.True(t, err.InvalidRange)
}

func TestNilHelpers(t *testing.T) {
	var b *bool
	settings.Nil2Zero(&b)
	require.NotNil(t, b)
	assert.False(t, *b)

	def := "info"
	var s *string
	settings.OverwriteNil(&s, &def)
	require.NotNil(t, s)
	def = "debug"
	assert.Equal(t, "info", *s, "default is copied")

	explicit := "warn"
	s = &explicit
	settings.OverwriteNil(&s, &def)
	assert.Equal(t, "warn", *s)
}

func TestDurationYAML(t *testing.T) {
	var c struct {
		Timeout *settings.Duration `yaml:"timeout"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("timeout: 1m30s"), &c))
	require.NotNil(t, c.Timeout)
	assert.Equal(t, 90*time.Second, time.Duration(*c.Timeout))

	assert.Error(t, yaml.Unmarshal([]byte("timeout: later"), &c))
}

func ExampleDuration_String() {
	for _, d := range []time.Duration{
		time.Hour, 2 * time.Minute, 90 * time.Second, 0, 70 * time.Minute,
	} {
		fmt.Println(settings.Duration(d))
	}
	// Output:
	// 1h
	// 2m
	// 1m30s
	// 0s
	// 1h10m
}

func ExampleDuration_MarshalText() {
	d := settings.Duration(30 * time.Second)
	b, err := yaml.Marshal(map[string]settings.Duration{"timeout": d})
	fmt.Println(err)
	fmt.Print(string(b))
	// Output:
	// <nil>
	// timeout: 30s
}
