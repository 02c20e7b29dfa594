package minecraft

import "strings"

// MergePatch applies a loader patch to a base manifest and returns the result.
// base is never modified. Libraries of the patch come first; libraries matching
// one of the patch DedupPrefixes are only kept once, in their highest version
func MergePatch(base *LaunchManifest, patch *LoaderPatch) *LaunchManifest {
	if patch == nil {
		return base
	}

	merged := base.Clone()
	if patch.MainClass != "" {
		merged.MainClass = patch.MainClass
	}
	if patch.Loader != "" && patch.Loader != LoaderVanilla {
		merged.ID = patch.ID()
		if merged.Jar == "" {
			merged.Jar = base.MinecraftVersion()
		}
	}

	merged.Arguments.JVM = append(cloneArgs(base.JVMArgs()), cloneArgs(patch.JVM)...)
	if patch.ReplaceGameArgs {
		merged.Arguments.Game = cloneArgs(patch.Game)
	} else {
		merged.Arguments.Game = append(cloneArgs(base.GameArgs()), cloneArgs(patch.Game)...)
	}
	// legacy arguments are part of Arguments.Game now
	merged.MinecraftArguments = ""

	libs := make(Libraries, 0, len(patch.Libraries)+len(base.Libraries))
	libs = append(libs, patch.Libraries...)
	libs = append(libs, base.Libraries...)
	merged.Libraries = DedupLibraries(libs, patch.DedupPrefixes)

	return merged
}

// DedupLibraries keeps the highest version of every library matching one of prefixes.
// The kept library takes the position of the first occurrence. Other libraries are passed through
func DedupLibraries(libs Libraries, prefixes []string) Libraries {
	out := make(Libraries, 0, len(libs))
	seen := make(map[string]int)

	for _, lib := range libs {
		if !hasAnyPrefix(lib.Name, prefixes) {
			out = append(out, lib)
			continue
		}

		coordinate := lib.Coordinate()
		key := coordinate.Key()
		i, ok := seen[key]
		if !ok {
			seen[key] = len(out)
			out = append(out, lib)
			continue
		}
		if CompareVersions(coordinate.Version, out[i].Coordinate().Version) > 0 {
			out[i] = lib
		}
	}

	return out
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
