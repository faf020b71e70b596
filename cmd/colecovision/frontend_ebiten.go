//go:build !headless

// frontend_ebiten.go - ebiten video/input and oto audio output.
//
// Licensed under the GNU General Public License v3.0 or later.
package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
	"golang.org/x/image/draw"

	"github.com/colecovision-core/cvcore/internal/bus"
	"github.com/colecovision-core/cvcore/internal/system"
	"github.com/colecovision-core/cvcore/internal/vdp"
)

// ebitenFrontend drives the machine one frame per ebiten Update/Draw cycle,
// plays audio through oto, and maps the keyboard to controller port 0
// (port 1 always reads as idle).
type ebitenFrontend struct {
	sys   *system.System
	cfg   Config
	img   *ebiten.Image
	bgra  []byte
	otoCtx *oto.Context
	player *oto.Player
	audioRing *audioRing

	clipboardOnce sync.Once
	clipboardOK   bool
}

func newFrontend(sys *system.System, cfg Config) (frontend, error) {
	f := &ebitenFrontend{
		sys:  sys,
		cfg:  cfg,
		img:  ebiten.NewImage(vdp.FrameWidth, vdp.FrameHeight),
		bgra: make([]byte, vdp.FrameWidth*vdp.FrameHeight*4),
	}

	ring := newAudioRing(int(cfg.SampleQ) / 4)
	f.audioRing = ring
	sys.AudioReady = func(n int) { ring.push(sys.AudioBuffer[:n]) }

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(cfg.SampleQ),
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("colecovision: audio init: %w", err)
	}
	<-ready
	f.otoCtx = ctx
	f.player = ctx.NewPlayer(ring)
	f.player.Play()

	sys.SetInput(func(port int) uint16 {
		if port == 1 {
			return bus.KeypadBaseline
		}
		return bus.KeypadBaseline | keyboardJoystick()
	})

	return f, nil
}

func (f *ebitenFrontend) Run() error {
	ebiten.SetWindowSize(vdp.FrameWidth*f.cfg.Scale, vdp.FrameHeight*f.cfg.Scale)
	ebiten.SetWindowTitle("ColecoVision")
	ebiten.SetWindowResizable(true)
	if f.cfg.Fullscreen {
		ebiten.SetFullscreen(true)
	}
	return ebiten.RunGame(f)
}

func (f *ebitenFrontend) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := saveStateFile(f.sys, f.cfg.quickSavePath()); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		f.copyStateToClipboard()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		if err := loadStateFile(f.sys, f.cfg.quickSavePath()); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if err := f.screenshot(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	f.sys.FrameExec()
	return nil
}

func (f *ebitenFrontend) Draw(screen *ebiten.Image) {
	f.sys.Frame(f.bgra)
	f.img.WritePixels(bgraToRGBA(f.bgra))
	screen.DrawImage(f.img, nil)
}

func (f *ebitenFrontend) Layout(outsideWidth, outsideHeight int) (int, int) {
	return vdp.FrameWidth, vdp.FrameHeight
}

// bgraToRGBA swaps the B and R byte lanes: the VDP emits BGRA but ebiten's
// WritePixels expects RGBA byte order.
func bgraToRGBA(src []byte) []byte {
	out := make([]byte, len(src))
	for i := 0; i+3 < len(src); i += 4 {
		out[i], out[i+1], out[i+2], out[i+3] = src[i+2], src[i+1], src[i+0], src[i+3]
	}
	return out
}

// screenshot writes the current frame to a timestamped PNG, scaled up with
// a nearest-neighbor resample so emulator pixels stay sharp.
func (f *ebitenFrontend) screenshot() error {
	f.sys.Frame(f.bgra)
	src := image.NewRGBA(image.Rect(0, 0, vdp.FrameWidth, vdp.FrameHeight))
	copy(src.Pix, bgraToRGBA(f.bgra))

	scale := f.cfg.Scale
	if scale < 1 {
		scale = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, vdp.FrameWidth*scale, vdp.FrameHeight*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	name := fmt.Sprintf("colecovision-%d.png", time.Now().UnixNano())
	out, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("colecovision: screenshot: %w", err)
	}
	defer out.Close()
	return png.Encode(out, dst)
}

func (f *ebitenFrontend) copyStateToClipboard() {
	f.clipboardOnce.Do(func() {
		f.clipboardOK = clipboard.Init() == nil
	})
	if !f.clipboardOK {
		return
	}
	clipboard.Write(clipboard.FmtText, encodeState(f.sys))
}
