// Package engine is the top-level orchestration surface for a structured
// three-way merge of a single file: it chooses the file's language profile,
// runs the fast-mode coordinator, and maps the outcome onto the exit-status
// scheme callers (a CLI or a VCS merge driver) expect. Grounded on the
// teacher's merge.Merge3Way convenience entry point, generalized from its
// per-unit semantic diff to the whole structural pipeline.
package engine

import (
	"fmt"

	"smerge/fastmerge"
	"smerge/langprofile"
	"smerge/render"
)

// Options configures a merge run.
type Options struct {
	// Compact places conflict markers at the conflict's exact granularity
	// instead of expanding each conflict to whole lines
	// (render.Options.Compact).
	Compact bool
	// Disable skips the structured/fast pipeline entirely and performs a
	// plain line-based merge, mirroring the SMERGE_DISABLE escape hatch
	// (spec.md §6) a caller can set when it wants to defer to its own
	// merge driver.
	Disable bool
	// LangOverride, when set, replaces langprofile.Detect(fileName) for
	// this run (e.g. from a user-supplied langprofile.ApplyOverride file),
	// so a caller can merge a file whose extension the registry doesn't
	// recognize, or override a detected profile's settings.
	LangOverride *langprofile.Profile
}

// Stats summarizes one merge run for --verbose diagnostics.
type Stats struct {
	UsedFastPath bool
	Conflicts    int
	Language     string
}

// MergeResult is the outcome of Merge3Way.
type MergeResult struct {
	Output []byte
	Stats  Stats
}

// ExitCode classifies a MergeResult the way spec.md §6 describes: 0 for a
// clean merge, 1 when conflict markers remain, so a git merge-driver-style
// caller can report success/failure without inspecting Output itself.
func (r *MergeResult) ExitCode() int {
	if r.Stats.Conflicts > 0 {
		return 1
	}
	return 0
}

// Merge3Way merges base/left/right contents of a single file named
// fileName (used only to select a language profile and parser driver; it
// need not exist on disk).
func Merge3Way(fileName string, base, left, right []byte, opts Options) (*MergeResult, error) {
	if opts.Disable {
		return disabledMerge(base, left, right)
	}

	var result *fastmerge.Result
	var err error
	if opts.LangOverride != nil {
		result, err = fastmerge.MergeWithProfile(fileName, base, left, right, opts.LangOverride, render.Options{Compact: opts.Compact})
	} else {
		result, err = fastmerge.Merge(fileName, base, left, right, render.Options{Compact: opts.Compact})
	}
	if err != nil {
		return nil, fmt.Errorf("merging %s: %w", fileName, err)
	}

	return &MergeResult{
		Output: result.Output,
		Stats: Stats{
			UsedFastPath: result.UsedFastPath,
			Conflicts:    result.Conflicts,
			Language:     languageFor(fileName, opts.LangOverride),
		},
	}, nil
}

func languageFor(fileName string, override *langprofile.Profile) string {
	if override != nil {
		return override.Name
	}
	if profile, ok := langprofile.Detect(fileName); ok {
		return profile.Name
	}
	return ""
}

// disabledMerge performs a plain line-based merge with no structural
// fallback, for SMERGE_DISABLE.
func disabledMerge(base, left, right []byte) (*MergeResult, error) {
	out, err := fastmerge.LineOnlyMerge(base, left, right)
	if err != nil {
		return nil, err
	}
	return &MergeResult{
		Output: out.Output,
		Stats:  Stats{UsedFastPath: true, Conflicts: out.Conflicts},
	}, nil
}
