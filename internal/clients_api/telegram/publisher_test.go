package telegram

import (
	"errors"
	"testing"

	"rate-imaging/internal/infra/fs"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent   []tgbotapi.Chattable
	failAt int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.failAt > 0 && len(f.sent)+1 == f.failAt {
		return tgbotapi.Message{}, errors.New("flood wait")
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func artifacts() []fs.Artifact {
	return []fs.Artifact{
		{Path: "out/image-3.png", Caption: "Year labels"},
		{Path: "out/graph.svg", Caption: "SVG chart"},
		{Path: "out/manifest.json", Caption: "manifest"},
		{Path: "out/contour.png", Caption: "Contours"},
	}
}

func TestPublishSendsPhotosAndDocuments(t *testing.T) {
	fake := &fakeSender{}
	p := &Publisher{bot: fake, chatID: -100123}

	n, err := p.Publish(artifacts())
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Len(t, fake.sent, 3)

	photo, ok := fake.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	require.Equal(t, int64(-100123), photo.ChatID)
	require.Equal(t, "Year labels", photo.Caption)
	require.Equal(t, tgbotapi.FilePath("out/image-3.png"), photo.File)

	doc, ok := fake.sent[1].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	require.Equal(t, "SVG chart", doc.Caption)

	_, ok = fake.sent[2].(tgbotapi.PhotoConfig)
	require.True(t, ok)
}

func TestPublishStopsOnError(t *testing.T) {
	fake := &fakeSender{failAt: 2}
	p := &Publisher{bot: fake, chatID: 1}

	n, err := p.Publish(artifacts())
	require.ErrorContains(t, err, "graph.svg")
	require.Equal(t, 1, n)
}

func TestParseChatID(t *testing.T) {
	id, err := parseChatID(" -1001234 ")
	require.NoError(t, err)
	require.Equal(t, int64(-1001234), id)

	_, err = parseChatID("@channel")
	require.Error(t, err)
}
