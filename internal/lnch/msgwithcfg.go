//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"runtime"
	"time"

	"github.com/sbcrane/InferRolesGo/internal/mm"
	"github.com/sbcrane/InferRolesGo/internal/vv"
)

var (
	Msg = NewMessageMakerWithDefaults()
)

func NewMessageMakerWithDefaults() *mm.MessageMaker {
	w := false
	if runtime.GOOS == "windows" {
		w = true
	}
	return &mm.MessageMaker{
		Lnc:  time.Now(),
		BW:   false,
		Clr:  "",
		LLvl: 0,
		LNm:  vv.MYNAME,
		SNm:  vv.SHORTNAME,
		Tick: false,
		Ver:  vv.VERSION,
		Win:  w,
	}
}

func UpdateMessageMakerWithConfig(m *mm.MessageMaker) {
	m.BW = Config.BlackAndWhite
	m.LLvl = Config.LogLevel
	m.Tick = Config.TickerActive
}
