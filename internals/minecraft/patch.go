package minecraft

// Loader families a LoaderPatch can come from
const (
	LoaderVanilla = "vanilla"
	LoaderFabric  = "fabric"
	LoaderQuilt   = "quilt"
	LoaderForge   = "forge"
)

// LoaderPatch contains everything a mod loader adds on top of a vanilla manifest
type LoaderPatch struct {
	Loader        string `json:"loader"`
	LoaderVersion string `json:"loaderVersion"`
	GameVersion   string `json:"gameVersion"`
	// MainClass replaces the vanilla main class if set
	MainClass string     `json:"mainClass,omitempty"`
	JVM       []Argument `json:"jvm,omitempty"`
	Game      []Argument `json:"game,omitempty"`
	Libraries Libraries  `json:"libraries,omitempty"`
	// ReplaceGameArgs is set for legacy profiles. Their game arguments are the complete
	// list and replace the base arguments
	ReplaceGameArgs bool `json:"replaceGameArgs,omitempty"`
	// DedupPrefixes are coordinate prefixes that are only allowed once in the merged libraries
	DedupPrefixes []string `json:"dedupPrefixes,omitempty"`
	// Generated lists libraries the loader installer would generate. They are missing
	// from the patch, so the result might not start
	Generated []string `json:"generated,omitempty"`
}

// ID returns the version id of the patched manifest
func (p *LoaderPatch) ID() string {
	if p.Loader == "" || p.Loader == LoaderVanilla {
		return p.GameVersion
	}
	return p.GameVersion + "-" + p.Loader + "-" + p.LoaderVersion
}

// PatchFromManifest turns a loader profile (a version json using "inheritsFrom")
// into a patch
func PatchFromManifest(loader string, loaderVersion string, profile *LaunchManifest) *LoaderPatch {
	return &LoaderPatch{
		Loader:          loader,
		LoaderVersion:   loaderVersion,
		GameVersion:     profile.MinecraftVersion(),
		MainClass:       profile.MainClass,
		JVM:             cloneArgs(profile.Arguments.JVM),
		Game:            append(SplitLegacyArguments(profile.MinecraftArguments), cloneArgs(profile.Arguments.Game)...),
		ReplaceGameArgs: profile.MinecraftArguments != "",
		Libraries:       append(Libraries(nil), profile.Libraries...),
	}
}
