// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// quoteFunc renders a dynamic path for the launch mode of the step using it.
type quoteFunc func(string) (string, error)

// unquoted passes s through for a direct launch whose arguments have their
// quotes stripped. A path holding a quote character would be altered, so it
// is refused.
func unquoted(s string) (string, error) {
	if strings.ContainsAny(s, `'"`) {
		return "", &InvalidInputsError{Problems: []string{
			fmt.Sprintf("path %q contains a quote character; use a nightly build or rename it", s),
		}}
	}
	return s, nil
}

// shellQuote quotes s for a POSIX shell when it contains metacharacters.
func shellQuote(s string) (string, error) {
	return syntax.Quote(s, syntax.LangPOSIX)
}

// IncludeResources renders the -H:IncludeResources flag. The pattern list is
// single-quoted so a shell keeps the '|' separators literal.
func IncludeResources(patterns []string) string {
	return "-H:IncludeResources='" + strings.Join(patterns, "|") + "'"
}

// NativeImageFlags is the fixed flag set passed to a directly launched
// native-image for in. The launcher strips quote characters from it.
func NativeImageFlags(in Inputs) ([]string, error) {
	return nativeImageFlags(in, unquoted)
}

func nativeImageFlags(in Inputs, quote quoteFunc) ([]string, error) {
	paths := []string{in.ReflectionConfigPath(), in.Layout.OutputDir, in.Output, in.InputPath()}
	quoted := make([]string, len(paths))
	for i, p := range paths {
		q, err := quote(p)
		if err != nil {
			return nil, err
		}
		quoted[i] = q
	}

	return []string{
		"--no-server",
		"-H:+JNI",
		"-H:ReflectionConfigurationFiles=" + quoted[0],
		IncludeResources(in.ResourcePatterns),
		"-H:Path=" + quoted[1],
		"-H:Name=" + quoted[2],
		"-jar", quoted[3],
	}, nil
}
