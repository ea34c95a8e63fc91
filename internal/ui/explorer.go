package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"jtr/internal/discovery"
	"jtr/internal/domain"
)

// Action runs or debugs one node; the explorer suspends the screen while it runs
type Action func(ctx context.Context, node *domain.TestNode) error

// Explorer is an interactive tree of every discovered test file
type Explorer struct {
	scanner *discovery.Scanner
	cache   *discovery.Cache
	root    string
	run     Action
	debug   Action

	app     *tview.Application
	tree    *tview.TreeView
	details *tview.TextView
	status  *tview.TextView

	// at most one refresh is queued; none after the app stopped
	refreshQueued atomic.Bool
	stopped       chan struct{}
	stopOnce      sync.Once
}

// NewExplorer creates a new Explorer over the test files under root
func NewExplorer(scanner *discovery.Scanner, cache *discovery.Cache, root string) *Explorer {
	return &Explorer{
		scanner: scanner,
		cache:   cache,
		root:    root,
		app:     tview.NewApplication(),
		stopped: make(chan struct{}),
	}
}

// OnRun sets the action bound to the r key
func (e *Explorer) OnRun(fn Action) { e.run = fn }

// OnDebug sets the action bound to the d key
func (e *Explorer) OnDebug(fn Action) { e.debug = fn }

// Load scans the root and parses every test file through the cache
func (e *Explorer) Load(ctx context.Context) ([]FileGroup, error) {
	files, err := e.scanner.Scan(e.root)
	if err != nil {
		return nil, err
	}
	forests, err := e.cache.ParseAll(ctx, files)
	if err != nil {
		return nil, err
	}
	return GroupByFile(forests), nil
}

// BuildTree builds the explorer tree: file basenames at the top level, forests nested below.
// File nodes reference their FileGroup, test nodes their *domain.TestNode.
func BuildTree(groups []FileGroup) *tview.TreeNode {
	root := tview.NewTreeNode("Tests").SetSelectable(false)
	for _, g := range groups {
		file := tview.NewTreeNode(tview.Escape(g.Label)).
			SetReference(g).
			SetColor(tcell.ColorWhite).
			SetExpanded(true)
		addNodes(file, g.Forest)
		root.AddChild(file)
	}
	return root
}

func addNodes(parent *tview.TreeNode, nodes []*domain.TestNode) {
	for _, n := range nodes {
		child := tview.NewTreeNode(nodeLabel(n)).
			SetReference(n).
			SetColor(treeColor(n)).
			SetExpanded(true)
		addNodes(child, n.Children)
		parent.AddChild(child)
	}
}

func nodeLabel(n *domain.TestNode) string {
	label := tview.Escape(n.Name)
	if n.Modifier != domain.ModifierNone {
		label += fmt.Sprintf(" (%s)", n.Modifier)
	}
	return label
}

func treeColor(n *domain.TestNode) tcell.Color {
	switch {
	case n.Modifier == domain.ModifierSkip:
		return tcell.ColorGray
	case n.Modifier == domain.ModifierOnly:
		return tcell.ColorGreen
	case n.IsSuite():
		return tcell.ColorDarkCyan
	}
	return tcell.ColorYellow
}

// describeNode is the details pane text for a tree reference
func describeNode(ref any) string {
	switch v := ref.(type) {
	case *domain.TestNode:
		return fmt.Sprintf("[yellow]%s[white]\n\n[cyan]%s[white] %s\n[gray]%s:%d:%d[white]",
			tview.Escape(v.QualifiedName),
			v.Keyword, v.Kind,
			tview.Escape(v.SourceFile), v.Line+1, v.Column+1)
	case FileGroup:
		return fmt.Sprintf("[yellow]%s[white]\n\n%d suites and tests\n[gray]%s[white]",
			tview.Escape(v.Label), domain.Count(v.Forest), tview.Escape(filepath.Dir(v.Path)))
	}
	return ""
}

// Refresh drops every cached parse and rebuilds the tree. It must run on the UI goroutine.
func (e *Explorer) Refresh(ctx context.Context) {
	e.cache.Invalidate()
	groups, err := e.Load(ctx)
	if err != nil {
		e.setStatus(fmt.Sprintf("[red]refresh failed: %s", tview.Escape(err.Error())))
		return
	}
	e.setRoot(groups)
	e.setStatus(fmt.Sprintf("[green]%d file(s) loaded", len(groups)))
}

// QueueRefresh schedules a refresh from any goroutine, e.g. a watcher callback.
// Calls while a refresh is already queued, or after the explorer stopped, are dropped.
func (e *Explorer) QueueRefresh(ctx context.Context) {
	select {
	case <-e.stopped:
		return
	case <-ctx.Done():
		return
	default:
	}
	if !e.refreshQueued.CompareAndSwap(false, true) {
		return
	}
	e.app.QueueUpdateDraw(func() {
		e.refreshQueued.Store(false)
		e.Refresh(ctx)
	})
}

func (e *Explorer) markStopped() {
	e.stopOnce.Do(func() { close(e.stopped) })
}

func (e *Explorer) setRoot(groups []FileGroup) {
	root := BuildTree(groups)
	e.tree.SetRoot(root)
	if children := root.GetChildren(); len(children) > 0 {
		e.tree.SetCurrentNode(children[0])
		e.details.SetText(describeNode(children[0].GetReference()))
	} else {
		e.details.SetText("[gray]no test files found")
	}
}

func (e *Explorer) setStatus(text string) {
	e.status.SetText(" " + text + "[white]  |  [yellow]r[white] run  [yellow]d[white] debug  [yellow]R[white] refresh  [yellow]q[white] quit")
}

// dispatch runs an action on the selected test node with the screen suspended
func (e *Explorer) dispatch(ctx context.Context, action Action, verb string) {
	if action == nil {
		return
	}
	current := e.tree.GetCurrentNode()
	if current == nil {
		return
	}
	node, ok := current.GetReference().(*domain.TestNode)
	if !ok {
		e.setStatus("[yellow]select a suite or test")
		return
	}

	var err error
	e.app.Suspend(func() {
		err = action(ctx, node)
		fmt.Print("\nPress Enter to return to the explorer...")
		_, _ = fmt.Scanln()
	})
	if err != nil {
		log.Debug().Err(err).Str("test", node.QualifiedName).Msg(verb + " finished with error")
		e.setStatus(fmt.Sprintf("[red]%s failed: %s", verb, tview.Escape(node.QualifiedName)))
		return
	}
	e.setStatus(fmt.Sprintf("[green]%s passed: %s", verb, tview.Escape(node.QualifiedName)))
}

// Run shows the explorer until the user quits
func (e *Explorer) Run(ctx context.Context) error {
	groups, err := e.Load(ctx)
	if err != nil {
		return err
	}

	e.tree = tview.NewTreeView().SetGraphics(true)
	e.tree.SetBorder(true).SetTitle(" " + tview.Escape(e.root) + " ")
	e.details = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	e.details.SetBorder(true).SetTitle(" Details ")
	e.status = tview.NewTextView().SetDynamicColors(true)

	e.setRoot(groups)
	e.setStatus(fmt.Sprintf("[green]%d file(s) loaded", len(groups)))

	e.tree.SetChangedFunc(func(node *tview.TreeNode) {
		e.details.SetText(describeNode(node.GetReference()))
	})
	e.tree.SetSelectedFunc(func(node *tview.TreeNode) {
		node.SetExpanded(!node.IsExpanded())
	})
	e.tree.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() != tcell.KeyRune {
			return event
		}
		switch event.Rune() {
		case 'r':
			e.dispatch(ctx, e.run, "run")
		case 'd':
			e.dispatch(ctx, e.debug, "debug")
		case 'R':
			e.Refresh(ctx)
		case 'q':
			e.app.Stop()
		default:
			return event
		}
		return nil
	})

	body := tview.NewFlex().
		AddItem(e.tree, 0, 2, true).
		AddItem(e.details, 0, 1, false)
	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(e.status, 1, 0, false)

	done := make(chan struct{})
	defer close(done)
	defer e.markStopped()
	go func() {
		select {
		case <-ctx.Done():
			e.app.Stop()
		case <-done:
		}
	}()

	if err := e.app.SetRoot(layout, true).SetFocus(e.tree).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
