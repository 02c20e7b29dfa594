package launchargs

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/minepkg/mcinstall/internals/logging"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/pbnjay/memory"
)

// LauncherName is passed to the game as launcher_name
const LauncherName = "mcinstall"

// LauncherVersion is passed to the game as launcher_version
var LauncherVersion = "0.0.0"

// DefaultJVMFlags are added in front of the manifest jvm arguments
var DefaultJVMFlags = []string{
	"-XX:+UnlockExperimentalVMOptions",
	"-XX:+UseG1GC",
	"-XX:G1NewSizePercent=20",
	"-XX:G1ReservePercent=20",
	"-XX:MaxGCPauseMillis=50",
	"-XX:G1HeapRegionSize=32M",
}

// Paths are the directories of an installation
type Paths struct {
	// Root is the installation root containing the shared directories
	Root       string
	Libraries  string
	Assets     string
	Versions   string
	GameDir    string
	NativesDir string
}

// NewPaths returns the default layout below root
func NewPaths(root string, gameDir string) Paths {
	return Paths{
		Root:      root,
		Libraries: filepath.Join(root, "libraries"),
		Assets:    filepath.Join(root, "assets"),
		Versions:  filepath.Join(root, "versions"),
		GameDir:   gameDir,
	}
}

// Context is everything needed to build the launch command of a client
type Context struct {
	Manifest *minecraft.LaunchManifest
	Env      *minecraft.Environment
	Paths    Paths
	// Auth may be nil, the game is started in demo mode then
	Auth minecraft.LaunchAuthData
	// Java is the java executable. Defaults to "java"
	Java string
	// MemoryMiB is the max heap size. 0 determines the amount by content count + available system ram
	MemoryMiB int
	// ContentCount is used to guess the memory if MemoryMiB is not set
	ContentCount int
	// Width and Height set a custom resolution if both are set
	Width  int
	Height int
	// ExtraJVMArgs are appended after the manifest jvm arguments
	ExtraJVMArgs []string
}

// ClientJar returns the path of the client jar. Patched versions share the jar of their base version
func ClientJar(man *minecraft.LaunchManifest, versionsDir string) string {
	id := man.Jar
	if id == "" {
		id = man.MinecraftVersion()
	}
	return filepath.Join(versionsDir, id, man.JarName())
}

// Classpath returns all required libraries followed by the client jar
func Classpath(man *minecraft.LaunchManifest, env *minecraft.Environment, paths Paths) []string {
	libs := man.Libraries.Required(env)
	cp := make([]string, 0, len(libs)+1)
	seen := make(map[string]struct{}, len(libs))
	for _, lib := range libs {
		p := filepath.Join(paths.Libraries, filepath.FromSlash(lib.Filepath(env)))
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		cp = append(cp, p)
	}
	return append(cp, ClientJar(man, paths.Versions))
}

// ClasspathSeparator returns the separator for the os of env
func ClasspathSeparator(env *minecraft.Environment) string {
	if env.OS == "windows" {
		return ";"
	}
	return ":"
}

// DefaultMemoryMiB guesses a good max heap size:
// 1GiB for base Minecraft plus 25MiB per content, at least a quarter
// of the system memory but never more than 85% of it
func DefaultMemoryMiB(contentCount int) int {
	sysMemMiB := float64(memory.TotalMemory()) / 1024 / 1024
	if sysMemMiB == 0 {
		return 1024 + contentCount*25
	}

	maxRamMiB := float64(1024 + contentCount*25)
	maxRamMiB = math.Max(maxRamMiB, sysMemMiB/4)
	maxRamMiB = math.Min(maxRamMiB, sysMemMiB*0.85)
	return int(maxRamMiB)
}

func (c *Context) env() *minecraft.Environment {
	env := c.Env
	if env == nil {
		env = minecraft.CurrentEnvironment()
	}
	if c.Auth == nil {
		env = env.WithFeature("is_demo_user", true)
	}
	if c.Width > 0 && c.Height > 0 {
		env = env.WithFeature("has_custom_resolution", true)
	}
	return env
}

// Variables returns the values for all known placeholders
func (c *Context) Variables() Variables {
	man := c.Manifest
	env := c.env()

	assetIndex := man.AssetIndex.ID
	if assetIndex == "" {
		assetIndex = man.Assets
	}

	vars := Variables{
		"version_name":        man.ID,
		"version_type":        man.Type,
		"game_directory":      c.Paths.GameDir,
		"assets_root":         c.Paths.Assets,
		"game_assets":         filepath.Join(c.Paths.Assets, "virtual", "legacy"),
		"assets_index_name":   assetIndex,
		"launcher_name":       LauncherName,
		"launcher_version":    LauncherVersion,
		"classpath":           strings.Join(Classpath(man, env, c.Paths), ClasspathSeparator(env)),
		"classpath_separator": ClasspathSeparator(env),
		"natives_directory":   c.Paths.NativesDir,
		"library_directory":   c.Paths.Libraries,
		"user_properties":     "{}",
	}

	if c.Width > 0 && c.Height > 0 {
		vars["resolution_width"] = strconv.Itoa(c.Width)
		vars["resolution_height"] = strconv.Itoa(c.Height)
	}

	if c.Auth != nil {
		vars["auth_player_name"] = c.Auth.GetPlayerName()
		vars["auth_uuid"] = c.Auth.GetUUID()
		vars["auth_access_token"] = c.Auth.GetAccessToken()
		vars["auth_session"] = "token:" + c.Auth.GetAccessToken() + ":" + c.Auth.GetUUID()
		vars["user_type"] = c.Auth.GetUserType()
		if c.Auth.GetUserType() == minecraft.UserTypeMSA {
			vars["auth_xuid"] = c.Auth.GetXUID()
		}
	} else {
		vars["auth_player_name"] = "Player"
	}

	return vars
}

// Command returns the full command line: java, jvm arguments, main class and game arguments
func (c *Context) Command() ([]string, error) {
	man := c.Manifest
	if man.MainClass == "" {
		return nil, fmt.Errorf("launch manifest %s has no main class", man.ID)
	}
	logger := logging.Get("launchargs")
	env := c.env()
	vars := c.Variables()

	java := c.Java
	if java == "" {
		java = "java"
	}
	memMiB := c.MemoryMiB
	if memMiB <= 0 {
		memMiB = DefaultMemoryMiB(c.ContentCount)
	}

	jvmArgs, unknownJVM := build(man.JVMArgs(), vars, env)
	gameArgs, unknownGame := build(man.GameArgs(), vars, env)
	if unknown := append(unknownJVM, unknownGame...); len(unknown) != 0 {
		logger.Debug().Strs("variables", unknown).Msg("unknown launch variables were left empty")
	}

	cmd := []string{java}
	// macOS crashes without this
	if env.OS == "osx" && !contains(jvmArgs, "-XstartOnFirstThread") {
		cmd = append(cmd, "-XstartOnFirstThread")
	}
	cmd = append(cmd, fmt.Sprintf("-Xmx%dM", memMiB))
	if c.MemoryMiB > 0 {
		cmd = append(cmd, fmt.Sprintf("-Xms%dM", c.MemoryMiB))
	}
	cmd = append(cmd, DefaultJVMFlags...)
	cmd = append(cmd, "-Dminecraft.client.jar="+ClientJar(man, c.Paths.Versions))

	for _, arg := range jvmArgs {
		// memory is set by us
		if strings.HasPrefix(arg, "-Xmx") || strings.HasPrefix(arg, "-Xms") {
			continue
		}
		cmd = append(cmd, arg)
	}
	cmd = append(cmd, c.ExtraJVMArgs...)
	cmd = append(cmd, man.MainClass)
	cmd = append(cmd, gameArgs...)

	return cmd, nil
}

// Roots are the paths replaced by Relative
func (c *Context) Roots() map[string]string {
	roots := map[string]string{
		"install_root":   c.Paths.Root,
		"game_directory": c.Paths.GameDir,
	}
	if filepath.IsAbs(c.Java) {
		roots["java"] = c.Java
	}
	return roots
}

// RelativeCommand returns Command with absolute paths replaced by placeholders
func (c *Context) RelativeCommand() ([]string, error) {
	cmd, err := c.Command()
	if err != nil {
		return nil, err
	}
	return Relative(cmd, c.Roots()), nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
