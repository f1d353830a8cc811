package main

import (
	"image/color"

	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
)

// PauseUI is the centered pause panel: a Resume button, a prefab picker for
// right click spawns, and a button that clears every emitter.
type PauseUI struct {
	ui      *ebitenui.UI
	game    *Game
	buttons []*widget.Button
}

func NewPauseUI(g *Game) *PauseUI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	hoverImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x55, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	p := &PauseUI{game: g}

	newButton := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: hoverImg, Pressed: btnImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(center),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	title := widget.NewText(
		widget.TextOpts.Text("Paused", &face, white),
		widget.TextOpts.WidgetOpts(center),
	)
	resumeBtn := newButton("Resume", func() { g.paused = false })
	clearBtn := newButton("Clear particles", g.clearParticles)
	pickerTitle := widget.NewText(
		widget.TextOpts.Text("Right click spawns:", &face, white),
		widget.TextOpts.WidgetOpts(center),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(baseWidth/2, baseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(resumeBtn)
	panel.AddChild(clearBtn)
	panel.AddChild(pickerTitle)

	for i, name := range g.prefabs {
		btn := newButton(name, func() { g.selected = i })
		p.buttons = append(p.buttons, btn)
		panel.AddChild(btn)
	}

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	p.ui = &ebitenui.UI{Container: root}
	p.refresh()
	return p
}

// refresh marks the selected prefab.
func (p *PauseUI) refresh() {
	for i, btn := range p.buttons {
		label := p.game.prefabs[i]
		if i == p.game.selected {
			label = "> " + label + " <"
		}
		if text := btn.Text(); text != nil {
			text.Label = label
		}
	}
}

func (p *PauseUI) Update() {
	p.ui.Update()
	p.refresh()
}

func (p *PauseUI) Draw(screen *ebiten.Image) {
	p.ui.Draw(screen)
}
