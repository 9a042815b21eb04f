//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestColorStripsTagsInBWMode(t *testing.T) {
	m := &MessageMaker{BW: true, Lnc: time.Now()}

	assert.Equal(t, "themes: 50", m.Color("themes: C350C0"))
	assert.Equal(t, "bold", m.Styled("S1boldS0"))
	assert.Equal(t, "both", m.ColStyle("C1S1bothS0C0"))
}

func TestColorInsertsAnsiCodes(t *testing.T) {
	m := &MessageMaker{BW: false, Lnc: time.Now()}

	out := m.Color("C1warmC0")
	assert.Contains(t, out, YELLOW1)
	assert.Contains(t, out, RESET)
	assert.NotContains(t, out, "C1")
}

func TestErrorCheckersPassOnNil(t *testing.T) {
	// EF and EC exit the program on a real error; a nil must sail through
	m := &MessageMaker{Lnc: time.Now(), Clr: "caller()"}

	m.EF(nil, "caller()")
	m.EC(nil)
}

func TestStageInfoHub(t *testing.T) {
	go StageInfoHub()

	m := &MessageMaker{}
	m.LogStage("GibbsPass")
	m.LogStage("GibbsPass")
	m.LogStage("Audit")

	// the hub drains its update channel asynchronously
	assert.Eventually(t, func() bool {
		responder := StageReply{req: true, response: make(chan map[string]int)}
		StageRequest <- responder
		seen := <-responder.response
		return seen["GibbsPass"] == 2 && seen["Audit"] == 1
	}, time.Second, 10*time.Millisecond)
}
