// Package harness runs conversion scenarios against Records and ArgLists.
//
// A scenario is a YAML file that holds either a record (a mapping) or an
// argument list (a sequence), followed by checks. Each check reads one
// value, converts it to a named type and compares the result, or the error
// code, with what the scenario expects:
//
//	name: huanhuan
//	description: the README example
//	record:
//	  name: huanhuanonly
//	  old: "1314.520"
//	checks:
//	  - lookup: [old]
//	    as: int
//	    expect: 1314
//	  - lookup: [class]
//	    as: string
//	    default: [EmptyClass]
//	    expect: EmptyClass
//
// Every run produces a trace with one event per check. RunWithGolden
// compares that trace with testdata/golden/{name}.golden; regenerate the
// files with:
//
//	go test ./internal/harness -update
package harness
