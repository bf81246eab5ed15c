package compile

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

// 通过 -ldflags "-X github.com/play/doudizhu/pkg/compile.Version=..." 注入
var (
	Name     = "doudizhu"
	Id       = "" // Hostname.Name
	Hostname = ""

	Version   = ""
	GoVersion = runtime.Version()
	GoOs      = runtime.GOOS
	GoArch    = runtime.GOARCH
	GitCommit = ""
	BuildTime = ""
)

func init() {
	Hostname, _ = os.Hostname()
	Id = fmt.Sprintf("%s.%s", Hostname, Name)

	// 没有注入时从模块信息里取
	if info, ok := debug.ReadBuildInfo(); ok {
		if Version == "" {
			Version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if GitCommit == "" {
					GitCommit = s.Value
				}
			case "vcs.time":
				if BuildTime == "" {
					BuildTime = s.Value
				}
			}
		}
	}
}

func Os() string {
	return fmt.Sprintf("%s/%s", GoOs, GoArch)
}

func Print() {
	fmt.Printf("Name: %s\nVersion: %s\nGo Version: %s\nOS: %s\nGit Commit: %s\nBuild Time: %s\n", Name, Version, GoVersion, Os(), GitCommit, BuildTime)
}

func Log() {
	log.Info().Str("id", Id).Str("version", Version).Str("go_version", GoVersion).Str("os", Os()).Str("commit", GitCommit).Str("build_time", BuildTime).Msg("build info")
}
