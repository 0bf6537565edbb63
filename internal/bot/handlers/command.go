package handlers

import (
	"fmt"
	"strings"

	"github.com/HoltTechnologyCorporation/watchdog-robot/internal/moderation"
)

const msgInvalidCommand = "Invalid command"

// commandArg extracts the single whitespace-delimited argument of a command
// like "/watchdog_allow link". Anything but exactly one argument is rejected.
func commandArg(text string) (string, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return "", fmt.Errorf("%w: expected exactly one argument", moderation.ErrInvalidCommand)
	}
	return fields[1], nil
}

// parseSetArg parses a "key=value" pair where value must be exactly yes or no.
func parseSetArg(arg string) (string, bool, error) {
	key, rawValue, ok := strings.Cut(arg, "=")
	if !ok || key == "" {
		return "", false, fmt.Errorf("%w: expected key=value", moderation.ErrInvalidCommand)
	}
	switch rawValue {
	case "yes":
		return key, true, nil
	case "no":
		return key, false, nil
	}
	return "", false, fmt.Errorf("%w: value must be yes or no, got %q", moderation.ErrInvalidCommand, rawValue)
}

// settableKeys lists the general policy settings admins may change with the
// set command. Tag allow flags have their own allow/block commands.
var settableKeys = map[string]bool{
	moderation.SettingNotifyActions: true,
}

func yesNo(v bool) string {
	if v {
		return "YES"
	}
	return "NO"
}
