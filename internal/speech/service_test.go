package speech

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTTS struct {
	payload AudioPayload
	err     error
	lastReq SynthesisRequest
}

func (f *fakeTTS) Synthesize(_ context.Context, req SynthesisRequest) (AudioPayload, error) {
	f.lastReq = req
	return f.payload, f.err
}

type fakeS3 struct {
	signedURL string
	err       error
	lastKey   string
	lastPath  string
}

func (f *fakeS3) ObjectKey(channel, title, ext string) string {
	return "audio/2024/01/01/" + channel + "-" + title + "." + ext
}

func (f *fakeS3) SaveAudio(_ context.Context, localPath, key string) (string, error) {
	f.lastPath = localPath
	f.lastKey = key
	return f.signedURL, f.err
}

type sliceChunks struct {
	chunks [][]byte
}

func (s *sliceChunks) Next() ([]byte, error) {
	if len(s.chunks) == 0 {
		return nil, io.EOF
	}
	c := s.chunks[0]
	s.chunks = s.chunks[1:]
	return c, nil
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name    string
		payload AudioPayload
		want    string
		wantErr bool
	}{
		{name: "buffer", payload: AudioBuffer("mp3-bytes"), want: "mp3-bytes"},
		{name: "empty buffer", payload: AudioBuffer(nil), wantErr: true},
		{name: "stream", payload: AudioStream{R: io.NopCloser(strings.NewReader("streamed"))}, want: "streamed"},
		{name: "zero byte stream", payload: AudioStream{R: io.NopCloser(strings.NewReader(""))}, wantErr: true},
		{
			name:    "chunks",
			payload: AudioChunks{Chunks: &sliceChunks{chunks: [][]byte{[]byte("ab"), []byte("cd")}}},
			want:    "abcd",
		},
		{name: "empty chunks", payload: AudioChunks{Chunks: &sliceChunks{}}, wantErr: true},
		{name: "unknown shape", payload: nil, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalize(tc.payload)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestRenderWritesFileAndPrefersSignedURL(t *testing.T) {
	dir := t.TempDir()
	tts := &fakeTTS{payload: AudioBuffer("mp3-bytes")}
	s3 := &fakeS3{signedURL: "https://s3.example/signed?sig=abc"}

	svc := NewService(tts, s3, dir)

	res, err := svc.Render(context.Background(), "il riassunto", "some_channel", "my_video", "it", 1.0)
	require.NoError(t, err)

	assert.Equal(t, "https://s3.example/signed?sig=abc", res.Ref())
	assert.Equal(t, filepath.Join(dir, "some_channel-my_video.mp3"), res.LocalPath)

	written, err := os.ReadFile(res.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(written))

	assert.Equal(t, "audio/2024/01/01/some_channel-my_video.mp3", s3.lastKey)
	assert.Equal(t, voiceID, tts.lastReq.VoiceID)
	assert.Equal(t, modelID, tts.lastReq.ModelID)
	assert.Equal(t, "it", tts.lastReq.LanguageCode)
}

func TestRenderUploadFailureDegradesToLocalPath(t *testing.T) {
	dir := t.TempDir()
	tts := &fakeTTS{payload: AudioBuffer("mp3-bytes")}
	s3 := &fakeS3{err: errors.New("bucket on fire")}

	svc := NewService(tts, s3, dir)

	res, err := svc.Render(context.Background(), "testo", "chan", "vid", "en", 1.0)
	require.NoError(t, err)
	assert.Equal(t, res.LocalPath, res.Ref())
	assert.Empty(t, res.SignedURL)
}

func TestRenderWithoutS3(t *testing.T) {
	dir := t.TempDir()
	tts := &fakeTTS{payload: AudioBuffer("mp3-bytes")}

	svc := NewService(tts, nil, dir)

	res, err := svc.Render(context.Background(), "testo", "chan", "vid", "en", 1.0)
	require.NoError(t, err)
	assert.Equal(t, res.LocalPath, res.Ref())
}

func TestRenderZeroByteStreamFails(t *testing.T) {
	tts := &fakeTTS{payload: AudioStream{R: io.NopCloser(strings.NewReader(""))}}
	svc := NewService(tts, nil, t.TempDir())

	_, err := svc.Render(context.Background(), "testo", "chan", "vid", "en", 1.0)
	require.Error(t, err)

	var pe *ProviderError
	assert.ErrorAs(t, err, &pe)
}

func TestRenderProviderErrorWrapped(t *testing.T) {
	boom := errors.New("tts failed (503): busy")
	tts := &fakeTTS{err: boom}
	svc := NewService(tts, nil, t.TempDir())

	_, err := svc.Render(context.Background(), "testo", "chan", "vid", "en", 1.0)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, pe.Err, boom)
}
