//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCadences(t *testing.T) {
	// the topic report fires at iteration zero: the initial random state belongs on
	// the record before any sampling has moved a word
	rp, au, rw := cadences(0)
	assert.True(t, rp)
	assert.False(t, au)
	assert.False(t, rw)

	rp, au, rw = cadences(10)
	assert.False(t, rp)
	assert.False(t, au)
	assert.False(t, rw)

	rp, au, rw = cadences(20)
	assert.True(t, rp)
	assert.False(t, au)
	assert.False(t, rw)

	rp, au, rw = cadences(50)
	assert.False(t, rp)
	assert.True(t, au)
	assert.False(t, rw)

	// the reweight only starts once the burn-in is behind us
	_, _, rw = cadences(80)
	assert.False(t, rw)
	_, _, rw = cadences(99)
	assert.False(t, rw)
	rp, au, rw = cadences(100)
	assert.True(t, rp)
	assert.True(t, au)
	assert.True(t, rw)
	_, _, rw = cadences(120)
	assert.True(t, rw)
}
