package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/nibzard/fvp-go/internal/config"
	"github.com/nibzard/fvp-go/internal/logging"
	"github.com/nibzard/fvp-go/internal/prompts"
	"github.com/nibzard/fvp-go/internal/todo"
)

// doctorCommand checks config, prompts, hook and task file validity.
func (c *cli) doctorCommand(args []string) error {
	cf := c.newFlagSet("doctor")
	verbose := cf.Bool("verbose", false, "List every task in the task file")
	cws, handled, err := c.load(cf, args)
	if handled || err != nil {
		return err
	}
	cfg := cws.Config
	w := c.out

	fmt.Fprintln(w, "FVP Doctor")
	fmt.Fprintln(w, "==========")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintln(w, "Config:")
	if len(cws.Files) == 0 {
		fmt.Fprintln(w, "  ⚠️  No config file found (using defaults)")
	}
	for _, f := range cws.Files {
		fmt.Fprintf(w, "  ✅ Read %s\n", f)
	}
	for _, e := range cws.Entries() {
		value := e.Value
		if value == "" {
			value = "(unset)"
		}
		fmt.Fprintf(w, "  %-15s %s [%s]\n", e.Field, value, e.Source)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Task file: %s\n", cfg.TaskFile)
	if !c.checkTaskFile(cfg.TaskFile, *verbose) {
		allOK = false
	}
	fmt.Fprintln(w)

	if !c.checkPrompts(cfg) {
		allOK = false
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Log directory: %s\n", cfg.LogDir)
	if !cfg.SessionLog {
		fmt.Fprintln(w, "  ⚠️  Session logging disabled")
	} else if info, err := os.Stat(cfg.LogDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on run)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
		if logDir, err := logging.FindLogDir(cfg.LogDir, cfg.TaskFile); err == nil {
			if runs, err := logging.FindLogRuns(logDir); err == nil {
				fmt.Fprintf(w, "  Sessions for this task file: %d\n", len(runs))
			}
		}
	}
	fmt.Fprintln(w)

	if cfg.HookCommand != "" {
		fmt.Fprintln(w, "Hook:")
		if !c.checkHook(cfg.HookCommand) {
			allOK = false
		}
		fmt.Fprintln(w)
	}

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. fvp may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

func (c *cli) checkTaskFile(path string, verbose bool) bool {
	w := c.out
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ❌ Not found")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		}
		return false
	}
	if info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		return false
	}

	file, err := todo.Load(path)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Load error: %v\n", err)
		return false
	}
	fmt.Fprintf(w, "  ✅ Loaded (%s format)\n", file.Format)

	result := file.Validate()
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	ok := result.Valid
	if ok {
		fmt.Fprintln(w, "  ✅ Valid")
	} else {
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
	}

	if list, err := file.List(); err == nil {
		stats := list.Stats()
		fmt.Fprintf(w, "  Tasks: %d (%d deleted)\n", stats.Total, stats.Deleted)
		if verbose {
			for _, t := range list.Entries() {
				state := "todo"
				if t.Deleted() {
					state = "deleted"
				}
				fmt.Fprintf(w, "    - [%s] %s: %s\n", state, t.ID(), t.Content())
			}
		}
	}
	return ok
}

// checkPrompts renders every prompt with sample data so broken overrides
// show up before a session starts.
func (c *cli) checkPrompts(cfg *config.Config) bool {
	w := c.out
	store := prompts.NewStore(cfg.PromptDir)
	dir := store.Dir()
	if dir == "" {
		fmt.Fprintln(w, "Prompts: bundled")
	} else {
		fmt.Fprintf(w, "Prompts directory: %s\n", dir)
		if info, err := os.Stat(dir); err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintln(w, "  ❌ Not found")
			} else {
				fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			}
			return false
		} else if !info.IsDir() {
			fmt.Fprintln(w, "  ❌ Error: path is not a directory")
			return false
		}
	}

	renderer := prompts.NewRenderer(store)
	checks := []struct {
		name   string
		render func() (string, error)
	}{
		{prompts.ComparePrompt, func() (string, error) {
			return renderer.Question(prompts.CompareQuestion("write the report", "answer email"))
		}},
		{prompts.DonePrompt, func() (string, error) {
			return renderer.Question(prompts.DoneQuestion("write the report"))
		}},
		{prompts.HelpPrompt, func() (string, error) {
			return renderer.HelpText(prompts.KindCompare)
		}},
	}

	ok := true
	for _, check := range checks {
		if _, err := check.render(); err != nil {
			fmt.Fprintf(w, "  ❌ %s: %v\n", check.name, err)
			ok = false
			continue
		}
		fmt.Fprintf(w, "  ✅ %s\n", check.name)
	}
	return ok
}

func (c *cli) checkHook(command string) bool {
	w := c.out
	fields := strings.Fields(command)
	fmt.Fprintf(w, "  command: %s\n", command)
	resolved, err := exec.LookPath(fields[0])
	if err != nil {
		fmt.Fprintf(w, "  ❌ Not found: %v\n", err)
		return false
	}
	fmt.Fprintf(w, "  ✅ OK (%s)\n", resolved)
	return true
}
