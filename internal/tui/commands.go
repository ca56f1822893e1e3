package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/docdesk/internal/backend"
	"github.com/csheth/docdesk/internal/chat"
	"github.com/csheth/docdesk/internal/pdfdoc"
	"github.com/csheth/docdesk/internal/recent"
	"github.com/csheth/docdesk/internal/screenshot"
	"github.com/csheth/docdesk/internal/translate"
)

// Backend is the subset of the HTTP client the TUI drives.
type Backend interface {
	Health(ctx context.Context) (backend.HealthStatus, error)
	Upload(ctx context.Context, name, path string) (backend.UploadResult, error)
	UploadScreenshot(ctx context.Context, png []byte) (backend.ScreenshotResult, error)
	Chat(ctx context.Context, req backend.ChatRequest) (backend.Message, error)
	History(ctx context.Context, name string) (backend.History, error)
	ClearHistory(ctx context.Context, name string) error
	Translate(ctx context.Context, text, lang string) (backend.Translation, error)
	ReportSelection(ctx context.Context, text string, page int) error
}

// Fetcher downloads remote PDFs to a local path.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// OpenFunc opens a local PDF for text extraction.
type OpenFunc func(path string) (pdfdoc.Source, error)

func openPDF(path string) (pdfdoc.Source, error) {
	doc, err := pdfdoc.Open(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func healthJob(client Backend) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, defaultTimeout)
		defer cancel()
		status, err := client.Health(ctx)
		return healthResultMsg{status: status, err: err}, err
	}
}

func fetchRemoteJob(fetcher Fetcher, url string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, uploadTimeout)
		defer cancel()
		if fetcher == nil {
			err := fmt.Errorf("no download cache configured for %s", url)
			return fetchResultMsg{url: url, err: err}, err
		}
		path, err := fetcher.Fetch(ctx, url)
		return fetchResultMsg{url: url, path: path, name: pdfdoc.DisplayName(url), err: err}, err
	}
}

func uploadJob(client Backend, name, path string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, uploadTimeout)
		defer cancel()
		result, err := client.Upload(ctx, name, path)
		return uploadResultMsg{name: name, result: result, err: err}, err
	}
}

// openDocumentJob extracts the text of every page up front so scrolling
// never blocks on the PDF reader.
func openDocumentJob(open OpenFunc, gen int, path string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		doc, err := open(path)
		if err != nil {
			return documentResultMsg{gen: gen, path: path, err: err}, err
		}
		defer doc.Close()
		pages := make([]string, doc.PageCount())
		for i := range pages {
			if err := parent.Err(); err != nil {
				return documentResultMsg{gen: gen, path: path, err: err}, err
			}
			text, err := doc.PageText(i + 1)
			if err != nil {
				// One unreadable page should not hide the rest of the document.
				text = ""
			}
			pages[i] = text
		}
		return documentResultMsg{gen: gen, path: path, pages: pages}, nil
	}
}

func historyJob(client Backend, tk chat.Ticket) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, defaultTimeout)
		defer cancel()
		history, err := client.History(ctx, tk.Document)
		return historyResultMsg{ticket: tk, messages: history.Messages, err: err}, err
	}
}

func chatJob(client Backend, send chat.Send) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, chatTimeout)
		defer cancel()
		reply, err := client.Chat(ctx, send.Request)
		return chatResultMsg{ticket: send.Ticket, reply: reply, err: err}, err
	}
}

func clearHistoryJob(client Backend, tk chat.Ticket) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, defaultTimeout)
		defer cancel()
		err := client.ClearHistory(ctx, tk.Document)
		return clearResultMsg{ticket: tk, err: err}, err
	}
}

func translateJob(client Backend, req translate.Request) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, defaultTimeout)
		defer cancel()
		result, err := client.Translate(ctx, req.Text, req.Language)
		return translateResultMsg{seq: req.Seq, translated: result.TranslatedText, err: err}, err
	}
}

func reportSelectionJob(client Backend, text string, page int) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, defaultTimeout)
		defer cancel()
		err := client.ReportSelection(ctx, text, page)
		return selectionReportMsg{err: err}, err
	}
}

func screenshotJob(client Backend, lines []string) jobRunner {
	captured := append([]string(nil), lines...)
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, defaultTimeout)
		defer cancel()
		png, err := screenshot.Render(captured, screenshot.Options{})
		if err != nil {
			return screenshotResultMsg{err: err}, err
		}
		result, err := client.UploadScreenshot(ctx, png)
		return screenshotResultMsg{result: result, err: err}, err
	}
}

func touchRecentJob(path string, entry recent.Entry) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		entries, err := recent.Touch(path, entry, recent.DefaultLimit)
		return recentsResultMsg{entries: entries, err: err}, err
	}
}

func savePositionJob(path, docPath string, page int) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		if err := recent.SetPosition(path, docPath, page); err != nil {
			return recentsResultMsg{err: err}, err
		}
		entries, err := recent.Load(path)
		return recentsResultMsg{entries: entries, err: err}, err
	}
}

func toastExpiry(id int) tea.Cmd {
	return tea.Tick(toastLifetime, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
