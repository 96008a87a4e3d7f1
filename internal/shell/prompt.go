package shell

import (
	"fmt"
	"os"
	"os/user"
)

// BuildPrompt renders "<user>@<host>: <cwd>> ".
func BuildPrompt() string {
	host, _ := os.Hostname()
	cwd, _ := os.Getwd()
	return fmt.Sprintf("%s@%s: %s> ", loginName(), host, cwd)
}

func loginName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "?"
}
