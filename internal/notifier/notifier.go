// Package notifier pushes desktop notifications to the habitquest tray app.
// The tray app advertises itself through a lockfile holding
// "port|pid|secret"; delivery is best effort and every failure is returned
// to the caller to log.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/models"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess

	ErrTrayNotRunning = errors.New(constants.TrayAppExecutable + " is not running")
)

type Notifier struct {
	client *http.Client
}

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

type lockInfo struct {
	port   string
	pid    int
	secret string
}

func New() *Notifier {
	return &Notifier{client: &http.Client{Timeout: 3 * time.Second}}
}

func (n *Notifier) Notify(text string) error {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := findAndValidateTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	return n.send(port, secret, WebhookPayload{
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	})
}

// AchievementMessage is the notification text for a newly unlocked achievement.
func AchievementMessage(a models.Achievement) string {
	icon := a.Icon
	if icon == "" {
		icon = "🏆"
	}
	return fmt.Sprintf("%s Achievement unlocked: %s (+%d XP)", icon, a.Name, a.Points)
}

// LevelUpMessage is the notification text for reaching a new level.
func LevelUpMessage(level int) string {
	return fmt.Sprintf("⭐ Level up! You reached level %d", level)
}

// ReminderMessage lists the habits still open today. At most three names are
// spelled out.
func ReminderMessage(pending []string) string {
	switch n := len(pending); {
	case n == 0:
		return "✅ All habits done for today"
	case n == 1:
		return fmt.Sprintf("⏰ Still to do today: %s", pending[0])
	case n <= 3:
		return fmt.Sprintf("⏰ %d habits left today: %s", n, strings.Join(pending, ", "))
	default:
		return fmt.Sprintf("⏰ %d habits left today: %s and %d more", n, strings.Join(pending[:3], ", "), n-3)
	}
}

// GetTrayAppConfigDir returns the directory holding the tray app lockfile.
// The tray app may relocate it through lockfile_dir in its settings.json.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil {
		if store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
			return *store.Settings.LockfileDir, nil
		}
	}

	return trayConfigDir, nil
}

func parseLockfile(content string) (lockInfo, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return lockInfo{}, errors.New("lockfile is malformed")
	}

	port := strings.TrimSpace(parts[0])
	if port == "" {
		return lockInfo{}, errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return lockInfo{}, errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return lockInfo{}, fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return lockInfo{}, errors.New("invalid process ID in lockfile")
	}

	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return lockInfo{}, errors.New("secret in lockfile is empty")
	}

	return lockInfo{port: port, pid: pid, secret: secret}, nil
}

func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", ErrTrayNotRunning
	}

	info, err := parseLockfile(string(content))
	if err != nil {
		return "", "", err
	}

	// a stale lockfile may point at a recycled pid
	process, err := findProcessFunc(info.pid)
	if err != nil || process == nil {
		return "", "", ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayAppExecutable) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", info.pid, constants.TrayAppExecutable, process.Executable())
	}

	return info.port, info.secret, nil
}

func (n *Notifier) send(port string, secret string, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, "http://127.0.0.1:"+port, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Habitquest-Secret", secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	msg, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(msg))
}
