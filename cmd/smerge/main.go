// Package main provides the smerge CLI: a structured three-way merge of a
// single file, grounded on the teacher's cmd/kai/main.go Cobra command-group
// conventions. It accepts the same three positional file argument order
// git's merge.conflictstyle driver protocol uses (base, left/current,
// right/other), so it is trivially wireable as one, though it is not itself
// a git merge-driver shim (spec.md Non-goals).
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"smerge/cachestore"
	"smerge/engine"
	"smerge/langprofile"
	"smerge/match"
	"smerge/parse"
	"smerge/synt"
)

var rootCmd = &cobra.Command{
	Use:     "smerge",
	Short:   "smerge - structured three-way merge for source and declarative files",
	Version: Version,
}

// Version is the current smerge CLI version.
var Version = "0.1.0"

var (
	outputPath   string
	compactFlag  bool
	verboseFlag  bool
	debugDir     string
	langOverride string
)

var mergeCmd = &cobra.Command{
	Use:   "merge <base> <left> <right>",
	Short: "Merge three revisions of a file",
	Args:  cobra.ExactArgs(3),
	RunE:  runMerge,
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Inspect past merges that produced conflicts",
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded reviews",
	RunE:  runReviewList,
}

var reviewShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a recorded merge's inputs and output",
	Args:  cobra.ExactArgs(1),
	RunE:  runReviewShow,
}

func init() {
	mergeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write merged content here instead of stdout")
	mergeCmd.Flags().BoolVar(&compactFlag, "compact", false, "place conflict markers at the conflict's exact granularity instead of whole lines")
	mergeCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "print diagnostic information to stderr")
	mergeCmd.Flags().StringVar(&debugDir, "debug-dump-dir", "", "write base-left.dot/base-right.dot/left-right.dot matching graphs here")
	mergeCmd.Flags().StringVar(&langOverride, "lang-override", "", "YAML file overriding or adding a language profile (see langprofile.ApplyOverride)")

	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewShowCmd)

	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(reviewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMerge(cmd *cobra.Command, args []string) error {
	logger := log.New(os.Stderr, "smerge: ", 0)
	baseFile, leftFile, rightFile := args[0], args[1], args[2]

	base, err := os.ReadFile(baseFile)
	if err != nil {
		return fmt.Errorf("reading base %s: %w", baseFile, err)
	}
	left, err := os.ReadFile(leftFile)
	if err != nil {
		return fmt.Errorf("reading left %s: %w", leftFile, err)
	}
	right, err := os.ReadFile(rightFile)
	if err != nil {
		return fmt.Errorf("reading right %s: %w", rightFile, err)
	}

	opts := engine.Options{Compact: compactFlag, Disable: disableRequested()}
	if verboseFlag && opts.Disable {
		logger.Printf("SMERGE_DISABLE set, skipping structured/fast pipeline for %s", leftFile)
	}

	if langOverride != "" {
		profile, err := langprofile.ApplyOverride(langOverride)
		if err != nil {
			return fmt.Errorf("applying lang override %s: %w", langOverride, err)
		}
		opts.LangOverride = profile
		if verboseFlag {
			logger.Printf("lang-override: using profile %q from %s", profile.Name, langOverride)
		}
	}

	if debugDir != "" {
		if err := writeDebugDumps(debugDir, baseFile, base, left, right); err != nil {
			logger.Printf("debug dump failed: %v", err)
		}
	}

	result, err := engine.Merge3Way(leftFile, base, left, right, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(128)
	}

	if verboseFlag {
		logger.Printf("language=%s fast-path=%v conflicts=%d", result.Stats.Language, result.Stats.UsedFastPath, result.Stats.Conflicts)
	}

	if result.Stats.Conflicts > 0 {
		if id, cerr := recordReview(leftFile, base, left, right, result); cerr != nil {
			logger.Printf("could not record review: %v", cerr)
		} else {
			fmt.Fprintf(os.Stderr, "review id: %s\n", id)
		}
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, result.Output, 0o644); err != nil {
			return fmt.Errorf("writing output %s: %w", outputPath, err)
		}
	} else {
		os.Stdout.Write(result.Output)
	}

	os.Exit(result.ExitCode())
	return nil
}

func disableRequested() bool {
	v, ok := os.LookupEnv("SMERGE_DISABLE")
	if !ok {
		return false
	}
	enabled, err := strconv.ParseBool(v)
	return err == nil && enabled
}

func recordReview(fileName string, base, left, right []byte, result *engine.MergeResult) (string, error) {
	dir, err := cachestore.DefaultDir()
	if err != nil {
		return "", err
	}
	store, err := cachestore.Open(dir)
	if err != nil {
		return "", err
	}
	defer store.Close()
	return store.Put(fileName, base, left, right, result.Output, result.Stats.Conflicts, time.Now().Unix())
}

func runReviewList(cmd *cobra.Command, args []string) error {
	dir, err := cachestore.DefaultDir()
	if err != nil {
		return err
	}
	store, err := cachestore.Open(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List()
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Printf("%s\t%s\t%d conflicts\n", r.ID, r.FileName, r.Conflicts)
	}
	return nil
}

func runReviewShow(cmd *cobra.Command, args []string) error {
	dir, err := cachestore.DefaultDir()
	if err != nil {
		return err
	}
	store, err := cachestore.Open(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("file: %s\nconflicts: %d\n\n--- base ---\n%s\n--- left ---\n%s\n--- right ---\n%s\n--- output ---\n%s\n",
		rec.FileName, rec.Conflicts, rec.Base, rec.Left, rec.Right, rec.Output)
	return nil
}

// writeDebugDumps recomputes the three pairwise matchings purely for
// visualization; it does not share state with the merge that follows
// (spec.md §6 "Debug dumps").
func writeDebugDumps(dir, fileName string, base, left, right []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating debug dump dir: %w", err)
	}

	baseParsed, err := parse.ParseFile(fileName, base, synt.Base)
	if err != nil {
		return err
	}
	leftParsed, err := parse.ParseFile(fileName, left, synt.Left)
	if err != nil {
		return err
	}
	rightParsed, err := parse.ParseFile(fileName, right, synt.Right)
	if err != nil {
		return err
	}

	mBL := match.Match(baseParsed.Tree, leftParsed.Tree, match.BaseOptions())
	mBR := match.Match(baseParsed.Tree, rightParsed.Tree, match.BaseOptions())
	mLR := match.Match(leftParsed.Tree, rightParsed.Tree, match.DefaultOptions())

	for name, m := range map[string]*match.Matching{
		"base-left.dot":  mBL,
		"base-right.dot": mBR,
		"left-right.dot": mLR,
	} {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		err = match.WriteDOT(f, name, m)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
