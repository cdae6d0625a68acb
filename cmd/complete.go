package cmd

import (
	"flag"

	"github.com/etnz/hobby"
	"github.com/etnz/hobby/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete handles shell completion requests for the hb binary called name.
// It returns immediately when the process was not started by the shell to
// complete a command line.
//
// Completion is installed with COMP_INSTALL=1 hb.
func Complete(name string) {
	completion().Complete(name)
}

// completion describes the hb command line: global flags, subcommands and
// their flags.
func completion() *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(flag.CommandLine),
	}
	root.Flags["cache"] = predict.Set{"file", "sqlite"}
	root.Flags["state"] = predict.Files("*")

	for _, g := range groups {
		for _, c := range g.commands {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			root.Sub[c.Name()] = &complete.Command{
				Flags: flagPredictors(fs),
				Args:  argsPredictor(c.Name()),
			}
		}
	}
	return root
}

// flagPredictors returns a predictor for every flag of fs. Boolean flags
// take no value and get none.
func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	grades := predict.Set{string(hobby.AllGrades)}
	for _, g := range hobby.Grades {
		grades = append(grades, string(g))
	}

	flags := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = nil
			return
		}
		switch f.Name {
		case "g":
			flags[f.Name] = grades
		case "s":
			flags[f.Name] = predict.Set{hobby.Held.String(), hobby.Listed.String(), hobby.Sold.String()}
		case "m":
			flags[f.Name] = predict.Set(hobby.SaleMediums)
		case "o", "backup-dir":
			flags[f.Name] = predict.Dirs("*")
		default:
			flags[f.Name] = predict.Something
		}
	})
	return flags
}

func argsPredictor(name string) complete.Predictor {
	switch name {
	case "import":
		return predict.Files("*.xlsx")
	case "topic":
		topics, err := docs.GetAllTopics()
		if err != nil {
			return predict.Nothing
		}
		return predict.Set(append(topics, "*"))
	default:
		return predict.Nothing
	}
}
