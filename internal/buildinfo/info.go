package buildinfo

var (
	Version    = "v0.1.0"
	CommitHash = "unknown"
)

type Info struct {
	About      string `json:"about,omitempty"`
	Tool       string `json:"tool,omitempty"`
	Version    string `json:"version,omitempty"`
	CommitHash string `json:"commit_hash,omitempty"`
}

func GetBuildInfo() Info {
	return Info{
		About:      "https://github.com/byronlcollier/zaparoo-label-automator",
		Tool:       "zaplab",
		Version:    Version,
		CommitHash: CommitHash,
	}
}
