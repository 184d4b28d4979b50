package harness

import (
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenHuuCuongK18/auto-testkit-generation-and-testing/logging"
)

func TestCapturerCollectsLines(t *testing.T) {
	reader := strings.NewReader("one\ntwo\nthree\n")
	c := NewCapturer("client", reader, nil, nil, nil)
	c.Start()

	require.True(t, c.Wait(5*time.Second))
	assert.Equal(t, []string{"one", "two", "three"}, c.Lines())
}

func TestCapturerTrimsCarriageReturns(t *testing.T) {
	reader := strings.NewReader("alpha\r\nbeta\r\n")
	c := NewCapturer("server", reader, nil, nil, nil)
	c.Start()

	require.True(t, c.Wait(5*time.Second))
	assert.Equal(t, []string{"alpha", "beta"}, c.Lines())
}

func TestCapturerFeedsSink(t *testing.T) {
	var mu sync.Mutex
	var got []string
	sink := func(source, line string) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, source+": "+line)
	}

	reader := strings.NewReader("hello\nworld\n")
	c := NewCapturer("client", reader, nil, sink, nil)
	c.Start()

	require.True(t, c.Wait(5*time.Second))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"client: hello", "client: world"}, got)
}

func TestCapturerAppendsToTranscript(t *testing.T) {
	l, err := logging.NewFileLogger(t.TempDir(), "run-capture")
	require.NoError(t, err)
	defer l.Close()

	tr, err := l.OpenTranscript("student_server_record.txt")
	require.NoError(t, err)

	reader := strings.NewReader("server up\nclient connected\n")
	c := NewCapturer("server", reader, tr, nil, nil)
	c.Start()

	require.True(t, c.Wait(5*time.Second))
	require.NoError(t, tr.Close())

	data, err := os.ReadFile(tr.Path())
	require.NoError(t, err)
	assert.Equal(t, "server up\nclient connected\n", string(data))
}

func TestCapturerStopsOnClosedPipe(t *testing.T) {
	pr, pw := io.Pipe()
	c := NewCapturer("client", pr, nil, nil, nil)
	c.Start()

	_, err := pw.Write([]byte("partial\n"))
	require.NoError(t, err)
	require.NoError(t, pw.Close())

	require.True(t, c.Wait(5*time.Second))
	assert.Equal(t, []string{"partial"}, c.Lines())

	select {
	case <-c.Done():
	default:
		t.Fatal("Done must be closed after the stream ends")
	}
}

func TestCapturerWaitTimeout(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	defer pr.Close()

	c := NewCapturer("client", pr, nil, nil, nil)
	c.Start()

	// Stream still open: the bounded wait gives up.
	assert.False(t, c.Wait(50*time.Millisecond))
}

func TestCapturerLinesSnapshot(t *testing.T) {
	reader := strings.NewReader("a\nb\n")
	c := NewCapturer("client", reader, nil, nil, nil)
	c.Start()
	require.True(t, c.Wait(5*time.Second))

	snap := c.Lines()
	snap[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, c.Lines())
}
