package journal

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// TimestampFormat is the layout of the bracketed header of each entry.
const TimestampFormat = "2006-01-02 15:04:05.000000"

// Separator terminates every entry.
var Separator = strings.Repeat("=", 50)

type Entry struct {
	Time     time.Time
	Text     string
	Response string
}

// String renders the entry exactly as it is appended to the log file.
func (e Entry) String() string {
	return fmt.Sprintf("\n[%s]\nExtracted Text:\n%s\nAI Response:\n%s\n%s\n",
		e.Time.Format(TimestampFormat), e.Text, e.Response, Separator)
}

// Journal appends entries to a plain text file. The file is opened and
// closed for every entry and is never read back.
type Journal struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

func New(path string) *Journal {
	return &Journal{
		path: path,
		now:  time.Now,
	}
}

func (j *Journal) Path() string {
	return j.path
}

// Append stamps the exchange with the current time and writes it.
func (j *Journal) Append(text, response string) (Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	entry := Entry{Time: j.now(), Text: text, Response: response}

	f, err := os.OpenFile(j.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return entry, fmt.Errorf("failed to open log file: %w", err)
	}

	if _, err := f.WriteString(entry.String()); err != nil {
		f.Close()
		return entry, fmt.Errorf("failed to write log entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return entry, fmt.Errorf("failed to close log file: %w", err)
	}
	return entry, nil
}
