//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

import "time"

const (
	MYNAME    = "InferRolesGo"
	SHORTNAME = "IRG"
	VERSION   = "0.4.1"

	// the two levels: topic ids below Themes are book-level themes; the rest are character-level roles

	DEFAULTTHEMES     = 50
	DEFAULTROLES      = 50
	DEFAULTVOCABSIZE  = 50000
	DEFAULTITERATIONS = 160
	DEFAULTALPHA      = 0.001
	DEFAULTBETA       = 0.1
	DEFAULTMAXLINES   = 100000
	DEFAULTMODELNAME  = "model"

	// a character must keep at least MINCHARWORDS in-vocabulary words to be sampled;
	// MAXCHARWORDS matches the historical int16 storage cap and keeps corpora comparable across runs

	MINCHARWORDS = 10
	MAXCHARWORDS = 32700

	BOOKIDSEPARATOR = "|"

	TOPICREPORTEVERY = 20 // print the top words for every topic each N iterations
	TOPICREPORTWORDS = 12
	AUDITEVERY       = 50  // rebuild the topic-word matrix from the assignments each N iterations and compare
	REWEIGHTAFTER    = 99  // alpha re-estimation begins after this iteration...
	REWEIGHTEVERY    = 20  // ...and recurs each N iterations
	REWEIGHTFLOOR    = 0.5 // clamps for the re-estimated alpha multipliers
	REWEIGHTCEILING  = 2.0

	WORKERSEEDMOD = 399 // per-chain rng seeds are ((chain+1)*(iteration+1)) % WORKERSEEDMOD

	CONFIGLOCATION = "."
	CONFIGALTAPTH  = "%s/.config/" // %s = os.UserHomeDir()
	CONFIGBASIC    = "irg-conf.json"
	MODELDBNAME    = "irg-models.db"
	VOCABOUTFILE   = "selectedvocab.txt"
	REPORTOUTFILE  = "%s-topics.html" // %s = model name

	DEFAULTPSQLHOST = "127.0.0.1"
	DEFAULTPSQLUSER = "irg_wr"
	DEFAULTPSQLPORT = 5432
	DEFAULTPSQLDB   = "irgmodelDB"

	MODELTABLENAME = "storedtopicmodels"

	MONITORHOST     = "127.0.0.1"
	TICKERDELAY     = 30 * time.Second
	WSPOLLINGPAUSE  = 10000000 * 10 // 10000000 * 10 = every .1s
	MONITORSHUTDOWN = 2 * time.Second

	JSONINDENT = "  "
	WRITEPERMS = 0644

	BASELINEXFORMDIV = 2 // baseline LDA transformation passes = iterations / BASELINEXFORMDIV

	TERMINALTOPICWIDTH = 8    // top words per topic in the end-of-run summary tables
	MAXGRAPHCHARS      = 2500 // t-SNE cost curves badly; embed no more characters than this

	SELFTESTITERATIONS = 10
)

const HELPTEXT = `command line options:
   C1-sourceC0  <file>   corpus file: "charid label w1 w2 w3 ..." per line
   C1-iterationsC0 <int> gibbs sampling iterations  [default: %d]
   C1-themesC0  <int>    number of book-level themes [default: %d]
   C1-rolesC0   <int>    number of character-level roles [default: %d]
   C1-wordsC0   <int>    vocabulary size [default: %d]
   C1-alphaC0   <float>  topic-proportion prior [default: %v]
   C1-betaC0    <float>  topic-word prior [default: %v]
   C1-nameC0    <string> model name used for reports and storage [default: '%s']
   C1-numprocessesC0 <int> sampling chains per pass [default: number of cpus]
   C1-maxlinesC0 <int>   read no further than N lines into the corpus [default: %d]
   C1-blC0               also fit a single-level LDA baseline and report it
   C1-bwC0               disable color in the terminal output
   C1-cfC0      <file>   read configuration from <file> [default: '%s/%s' then '%s%s']
   C1-glC0      <int>    terminal log level (0-5) [default: %d]
   C1-nosaveC0           skip model storage at the end of the run
   C1-pgC0      <json>   store models in postgres instead of sqlite
                      e.g.: C6"{\"Pass\": \"...\", \"Host\": \"127.0.0.1\", \"Port\": 5432, \"DBName\": \"%s\", \"User\": \"%s\"}"C0
   C1-profC0             enable cpu profiling for this run
   C1-qC0                quiet launch
   C1-stC0               run the self-test corpus and exit
   C1-tkC0               display the uptime/stage ticker
   C1-vC0                print version and exit
   C1-vvC0               print full version info and exit
   C1-wmC0      <port>   serve the run monitor at %s:<port>
`
