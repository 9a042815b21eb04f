//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/sbcrane/InferRolesGo/internal/mm"
	"github.com/sbcrane/InferRolesGo/internal/str"
	"github.com/sbcrane/InferRolesGo/internal/vv"
)

var (
	Config = BuildDefaultConfig()
)

// ConfigAtLaunch - read the configuration values from JSON and/or command line
func ConfigAtLaunch() {
	const (
		FAIL1 = "Could not parse your information as a valid collection of credentials. Use the following template:"
		FAIL2 = `"{\"Pass\": \"YOURPASSWORDHERE\" ,\"Host\": \"127.0.0.1\", \"Port\": 5432, \"DBName\": \"irgmodelDB\" ,\"User\": \"irg_wr\"}"`
		FAIL3 = `Could not parse the information in '%s'. Skipping and attempting to use built-in defaults instead.`
		FAIL4 = "'%s' requires a value; ignoring it"
		NOSRC = "No source corpus given. Either pass '-source <file>' or run '-st'."
	)

	Config = BuildDefaultConfig()

	var cf string

	args := os.Args[1:len(os.Args)]

	// a value flag at the very end of the line has nothing following it
	val := func(i int, a string) string {
		if i+1 >= len(args) {
			Msg.Emit(fmt.Sprintf(FAIL4, a), mm.MSGWARN)
			return ""
		}
		return args[i+1]
	}

	atoi := func(s string) int {
		n, e := strconv.Atoi(s)
		Msg.Error(e)
		return n
	}

	atof := func(s string) float64 {
		f, e := strconv.ParseFloat(s, 64)
		Msg.Error(e)
		return f
	}

	// the config file loads first so that the flags can overrule it
	for i, a := range args {
		if a == "-cf" {
			cf = val(i, a)
		}
	}
	LoadConfigFile(cf)

	for i, a := range args {
		switch a {
		case "-vv":
			PrintVersion(Config)
			PrintBuildInfo(Config)
			os.Exit(1)
		case "-v":
			fmt.Println(vv.VERSION + VersSuppl)
			os.Exit(1)
		case "-h":
			PrintVersion(Config)
			ht := fmt.Sprintf(vv.HELPTEXT, vv.DEFAULTITERATIONS, vv.DEFAULTTHEMES, vv.DEFAULTROLES,
				vv.DEFAULTVOCABSIZE, vv.DEFAULTALPHA, vv.DEFAULTBETA, vv.DEFAULTMODELNAME,
				vv.DEFAULTMAXLINES, vv.CONFIGLOCATION, vv.CONFIGBASIC, userconfigdir(), vv.CONFIGBASIC, 0,
				vv.DEFAULTPSQLDB, vv.DEFAULTPSQLUSER, vv.MONITORHOST)
			fmt.Println(Msg.ColStyle(ht))
			os.Exit(0)
		case "-source":
			Config.SourcePath = val(i, a)
		case "-iterations":
			Config.Iterations = atoi(val(i, a))
		case "-themes":
			Config.Themes = atoi(val(i, a))
		case "-roles":
			Config.Roles = atoi(val(i, a))
		case "-words":
			Config.VocabSize = atoi(val(i, a))
		case "-alpha":
			Config.Alpha = atof(val(i, a))
		case "-beta":
			Config.Beta = atof(val(i, a))
		case "-name":
			Config.ModelName = val(i, a)
		case "-numprocesses":
			Config.WorkerCount = atoi(val(i, a))
		case "-maxlines":
			Config.MaxLines = atoi(val(i, a))
		case "-bl":
			Config.Baseline = true
		case "-bw":
			Config.BlackAndWhite = true
		case "-gl":
			Config.LogLevel = atoi(val(i, a))
		case "-nosave":
			Config.NoSave = true
		case "-pg":
			js := val(i, a)
			var pl str.PostgresLogin
			err := json.Unmarshal([]byte(js), &pl)
			if err != nil {
				Msg.Emit(FAIL1, mm.MSGMAND)
				Msg.Emit(FAIL2, mm.MSGCRIT)
			} else {
				Config.PGLogin = pl
				Config.UsePostgres = true
			}
		case "-prof":
			Config.Profiling = true
		case "-q":
			Config.QuietStart = true
		case "-st":
			Config.SelfTest = true
		case "-tk":
			Config.TickerActive = true
		case "-wm":
			Config.WebMonitor = true
			Config.WebMonitorPort = atoi(val(i, a))
		default:
			// do nothing
		}
	}

	UpdateMessageMakerWithConfig(Msg)

	if Config.SourcePath == "" && !Config.SelfTest {
		Msg.Emit(NOSRC, mm.MSGCRIT)
		os.Exit(0)
	}

	if Config.WorkerCount < 1 {
		Config.WorkerCount = 1
	}
}

// LoadConfigFile - overlay values from a JSON config file onto the defaults; CLI flags run after this and win
func LoadConfigFile(cf string) {
	const (
		FAIL3 = `Could not parse the information in '%s'. Skipping and attempting to use built-in defaults instead.`
		FYI   = "'%s' loaded"
	)

	if cf == "" {
		cf = fmt.Sprintf("%s/%s", vv.CONFIGLOCATION, vv.CONFIGBASIC)
		if _, e := os.Stat(cf); e != nil {
			cf = userconfigdir() + vv.CONFIGBASIC
		}
	}

	loadedcfg, e := os.Open(cf)
	if e != nil {
		// not an error: most runs configure themselves entirely from the command line
		return
	}

	// decode over a copy of the defaults so an omitted field keeps its default
	decoderc := json.NewDecoder(loadedcfg)
	confc := Config
	errc := decoderc.Decode(&confc)
	_ = loadedcfg.Close()

	if errc == nil {
		Config = confc
	} else {
		Msg.Emit(fmt.Sprintf(FAIL3, cf), mm.MSGCRIT)
	}

	Msg.Emit(fmt.Sprintf(FYI, cf), mm.MSGTMI)
}

// BuildDefaultConfig - return a CurrentConfiguration filled out with various default values
func BuildDefaultConfig() str.CurrentConfiguration {
	var c str.CurrentConfiguration
	c.Alpha = vv.DEFAULTALPHA
	c.Baseline = false
	c.Beta = vv.DEFAULTBETA
	c.BlackAndWhite = false
	c.DBPath = userconfigdir() + vv.MODELDBNAME
	c.Iterations = vv.DEFAULTITERATIONS
	c.LogLevel = 0
	c.MaxLines = vv.DEFAULTMAXLINES
	c.ModelName = vv.DEFAULTMODELNAME
	c.NoSave = false
	c.QuietStart = false
	c.Roles = vv.DEFAULTROLES
	c.SelfTest = false
	c.Themes = vv.DEFAULTTHEMES
	c.TickerActive = false
	c.VocabSize = vv.DEFAULTVOCABSIZE
	c.WebMonitor = false
	c.WorkerCount = runtime.NumCPU()

	pl := str.PostgresLogin{
		Host:   vv.DEFAULTPSQLHOST,
		Port:   vv.DEFAULTPSQLPORT,
		User:   vv.DEFAULTPSQLUSER,
		Pass:   "",
		DBName: vv.DEFAULTPSQLDB,
	}

	c.PGLogin = pl

	return c
}

func userconfigdir() string {
	h, e := os.UserHomeDir()
	if e != nil {
		// how likely is this...?
		return "./"
	}
	return fmt.Sprintf(vv.CONFIGALTAPTH, h)
}
