package shell

import (
	"embed"
	"errors"
	"io/fs"
	"strings"
)

//go:embed helptext
var helptext embed.FS

func usage() string {
	dat, err := helptext.ReadFile("helptext/usage.txt")
	if err != nil {
		return "Error loading helptext: " + err.Error()
	}
	return string(dat)
}

func usageTopic(topic string) (string, error) {
	dat, err := helptext.ReadFile("helptext/" + topic + ".txt")
	if errors.Is(err, fs.ErrNotExist) {
		return "", errors.New("There is no help text for the topic " + topic)
	}
	if err != nil {
		return "", err
	}
	return string(dat), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(strings.TrimRight(usage(), "\n")), nil
	}
	txt, err := usageTopic(cmd.args[0])
	if err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(txt, "\n")), nil
}
