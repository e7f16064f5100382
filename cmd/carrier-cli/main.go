package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nazeru/carrier-marketplace-go/internal/carrier/domain"
	"github.com/nazeru/carrier-marketplace-go/internal/carrier/geo"
	"github.com/nazeru/carrier-marketplace-go/internal/carrier/registry"
	"github.com/nazeru/carrier-marketplace-go/pkg/money"
)

type cfg struct {
	DefaultName      string
	AcceptDelay      time.Duration
	CompleteDelay    time.Duration
	SeedBalanceCents int64
}

func readCfg() cfg {
	acceptMS, _ := strconv.Atoi(getenv("ACCEPT_DELAY_MS", "1200"))
	completeMS, _ := strconv.Atoi(getenv("COMPLETE_DELAY_MS", "1000"))
	seedCents, _ := strconv.ParseInt(getenv("SEED_BALANCE_CENTS", "0"), 10, 64)
	return cfg{
		DefaultName:      getenv("CARRIER_NAME", "Alex"),
		AcceptDelay:      time.Duration(acceptMS) * time.Millisecond,
		CompleteDelay:    time.Duration(completeMS) * time.Millisecond,
		SeedBalanceCents: seedCents,
	}
}

type screen int

const (
	screenAuth screen = iota
	screenDashboard
	screenRecipient
)

type card struct {
	order domain.Order
	miles float64
}

type model struct {
	cfg  cfg
	reg  *registry.Registry
	sess *registry.Session

	scr     screen
	name    string
	roleIdx int // 0 shopper, 1 recipient

	cards      []card
	selected   int
	confirming bool
	busy       bool
	status     string
	proofRef   string
	showFeed   bool
}

func initialModel(c cfg, reg *registry.Registry) model {
	return model{
		cfg:    c,
		reg:    reg,
		scr:    screenAuth,
		name:   c.DefaultName,
		status: "Ready",
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

type acceptDone struct {
	hold money.Amount
	err  error
}

type completeDone struct {
	released money.Amount
	reward   money.Amount
	err      error
}

// The artificial authorize/deliver delays live here on the caller side;
// the registry itself answers instantly.
func acceptCmd(reg *registry.Registry, sess *registry.Session, id domain.OrderID, delay time.Duration) tea.Cmd {
	return func() tea.Msg {
		time.Sleep(delay)
		hold, err := reg.AcceptOrder(sess, id)
		return acceptDone{hold: hold, err: err}
	}
}

func completeCmd(reg *registry.Registry, sess *registry.Session, id domain.OrderID, proofRef string, delay time.Duration) tea.Cmd {
	return func() tea.Msg {
		time.Sleep(delay)
		released, reward, err := reg.CompleteDelivery(sess, id, proofRef)
		return completeDone{released: released, reward: reward, err: err}
	}
}

func (m *model) refreshCards() {
	available := m.reg.ListAvailable()
	m.cards = m.cards[:0]
	for _, order := range available {
		m.cards = append(m.cards, card{order: order, miles: geo.DistanceMiles(order.RecipientLocation)})
	}
	if m.selected >= len(m.cards) {
		m.selected = len(m.cards) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.scr {
		case screenAuth:
			return m.updateAuth(msg)
		case screenRecipient:
			return m.updateRecipient(msg)
		default:
			return m.updateDashboard(msg)
		}
	case acceptDone:
		m.busy = false
		m.confirming = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Hold authorized: %s", msg.hold)
		m.refreshCards()
		return m, nil
	case completeDone:
		m.busy = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Delivered. Hold released: %s, fee earned: %s", msg.released, msg.reward)
		m.proofRef = ""
		m.refreshCards()
		return m, nil
	}
	return m, nil
}

func (m model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "left", "right":
		m.roleIdx = 1 - m.roleIdx
	case "backspace":
		if len(m.name) > 0 {
			m.name = m.name[:len(m.name)-1]
		}
	case "enter":
		role := domain.RoleShopper
		m.scr = screenDashboard
		if m.roleIdx == 1 {
			role = domain.RoleRecipient
			m.scr = screenRecipient
		}
		m.sess = m.reg.SignIn(m.name, role)
		m.status = "Ready"
		m.refreshCards()
	default:
		if msg.Type == tea.KeyRunes {
			m.name += string(msg.Runes)
		}
	}
	return m, nil
}

func (m model) updateRecipient(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "o":
		m.reg.SignOut(m.sess)
		m.sess = nil
		m.scr = screenAuth
	}
	return m, nil
}

func (m model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	active, hasActive := m.reg.CurrentAssignment(m.sess)

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "o":
		m.reg.SignOut(m.sess)
		m.sess = nil
		m.scr = screenAuth
		m.confirming = false
		m.proofRef = ""
		return m, nil
	case "e":
		m.showFeed = !m.showFeed
		return m, nil
	}

	if hasActive {
		switch msg.String() {
		case "p":
			m.proofRef = fmt.Sprintf("file://proof-%s-%s.jpg", active.ID, uuid.NewString()[:8])
			m.status = "Proof photo attached"
		case "enter":
			if m.proofRef == "" {
				m.status = "Please upload proof photo"
				return m, nil
			}
			m.busy = true
			m.status = "Processing..."
			return m, completeCmd(m.reg, m.sess, active.ID, m.proofRef, m.cfg.CompleteDelay)
		}
		return m, nil
	}

	switch msg.String() {
	case "up":
		if m.selected > 0 {
			m.selected--
		}
	case "down":
		if m.selected < len(m.cards)-1 {
			m.selected++
		}
	case "esc":
		m.confirming = false
	case "enter":
		if len(m.cards) == 0 {
			return m, nil
		}
		if !m.confirming {
			m.confirming = true
			return m, nil
		}
		m.busy = true
		m.status = "Authorizing..."
		return m, acceptCmd(m.reg, m.sess, m.cards[m.selected].order.ID, m.cfg.AcceptDelay)
	}
	return m, nil
}

func (m model) View() string {
	switch m.scr {
	case screenAuth:
		return m.viewAuth()
	case screenRecipient:
		return m.viewRecipient()
	default:
		return m.viewDashboard()
	}
}

func (m model) viewAuth() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "Neighborhood Carrier")
	fmt.Fprintln(b, "Crowdsourced deliveries for your community.")
	fmt.Fprintln(b, "")
	shopper, recipient := "[ I am a Shopper ]", "  I am a Recipient  "
	if m.roleIdx == 1 {
		shopper, recipient = "  I am a Shopper  ", "[ I am a Recipient ]"
	}
	fmt.Fprintf(b, " %s %s\n\n", shopper, recipient)
	fmt.Fprintf(b, " Your name: %s_\n", m.name)
	fmt.Fprintln(b, "")
	fmt.Fprintln(b, "This is a demo. Authentication is mocked.")
	fmt.Fprintln(b, "\nControls: tab switch role, type name, enter to continue, ctrl+c to quit")
	return b.String()
}

func (m model) viewRecipient() string {
	name := m.cfg.DefaultName
	if actor, ok := m.reg.Actor(m.sess); ok {
		name = actor.Name
	}
	b := &strings.Builder{}
	fmt.Fprintf(b, "Hi %s!\n\n", name)
	fmt.Fprintln(b, "Recipient experience is coming next.")
	fmt.Fprintln(b, "For now, try the Shopper view to explore the flow.")
	fmt.Fprintln(b, "\nControls: o to log out, q to quit")
	return b.String()
}

func (m model) viewDashboard() string {
	b := &strings.Builder{}
	balance, _ := m.reg.Balance(m.sess)
	fmt.Fprintf(b, "Balance: %s\n", balance)
	fmt.Fprintln(b, "[map placeholder] You are near SoMa, SF")
	fmt.Fprintln(b, "")

	active, hasActive := m.reg.CurrentAssignment(m.sess)
	if hasActive {
		fmt.Fprintln(b, "Active delivery")
		fmt.Fprintf(b, "  Route: %s -> %s\n", active.StoreName, active.RecipientAddress)
		fmt.Fprintf(b, "  Reward: %s\n", active.DeliveryFee)
		if m.proofRef != "" {
			fmt.Fprintf(b, "  Proof: %s\n", m.proofRef)
		} else {
			fmt.Fprintln(b, "  Proof: (none attached)")
		}
		fmt.Fprintln(b, "")
		fmt.Fprintf(b, "Status: %s\n", m.status)
		m.writeFeed(b)
		fmt.Fprintln(b, "\nControls: p attach proof, enter arrived & delivered, e earnings, o log out, q quit")
		return b.String()
	}

	fmt.Fprintln(b, "Available Orders")
	if len(m.cards) == 0 {
		fmt.Fprintln(b, "  No orders nearby right now")
	}
	for i, crd := range m.cards {
		marker := " "
		if i == m.selected {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %s  fee %s  hold %s  drop-off %.1f mi\n",
			marker, crd.order.StoreName, crd.order.DeliveryFee, crd.order.ItemValue, crd.miles)
	}
	if m.confirming && m.selected < len(m.cards) {
		selected := m.cards[m.selected]
		fmt.Fprintln(b, "")
		fmt.Fprintf(b, "Accept %s? Hold required: %s. Enter to authorize, esc to dismiss.\n",
			selected.order.StoreName, selected.order.ItemValue)
	}
	fmt.Fprintln(b, "")
	fmt.Fprintf(b, "Status: %s\n", m.status)
	m.writeFeed(b)
	fmt.Fprintln(b, "\nControls: up/down select, enter accept, e earnings, o log out, q quit")
	return b.String()
}

func (m model) writeFeed(b *strings.Builder) {
	if !m.showFeed {
		return
	}
	fmt.Fprintln(b, "\nActivity")
	for _, rec := range m.reg.Journal().All() {
		fmt.Fprintf(b, "  %s %s %s\n", rec.AppendedAt.Format("15:04:05"), rec.Event.Type, rec.Event.OrderID)
	}
	if snap := m.reg.Metrics().Snapshot(); snap != "" {
		fmt.Fprintf(b, "Ops: %s\n", snap)
	}
}

// runScenario drives the registry non-interactively, mirroring the happy
// and failure paths the dashboard exercises.
func runScenario(c cfg, name string) error {
	reg := registry.New(registry.Config{SeedBalance: money.Amount(c.SeedBalanceCents)})
	sess := reg.SignIn(c.DefaultName, domain.RoleShopper)

	available := reg.ListAvailable()
	if len(available) == 0 {
		return errors.New("seed catalog is empty")
	}
	first := available[0]

	switch name {
	case "happy":
		hold, err := reg.AcceptOrder(sess, first.ID)
		if err != nil {
			return err
		}
		fmt.Printf("accepted %s, hold %s\n", first.ID, hold)
		proof := fmt.Sprintf("file://proof-%s.jpg", first.ID)
		released, reward, err := reg.CompleteDelivery(sess, first.ID, proof)
		if err != nil {
			return err
		}
		fmt.Printf("delivered %s, released %s, fee %s\n", first.ID, released, reward)
		balance, _ := reg.Balance(sess)
		fmt.Printf("final balance %s\n", balance)
	case "insufficient":
		low := registry.New(registry.Config{SeedBalance: money.FromDollars(20, 0)})
		lowSess := low.SignIn(c.DefaultName, domain.RoleShopper)
		if _, err := low.AcceptOrder(lowSess, first.ID); err != nil {
			fmt.Printf("accept rejected as expected: %v\n", err)
			return nil
		}
		return errors.New("accept unexpectedly succeeded")
	case "taken":
		if _, err := reg.AcceptOrder(sess, first.ID); err != nil {
			return err
		}
		rival := reg.SignIn("Sam", domain.RoleShopper)
		if _, err := reg.AcceptOrder(rival, first.ID); err != nil {
			fmt.Printf("second accept rejected as expected: %v\n", err)
			return nil
		}
		return errors.New("second accept unexpectedly succeeded")
	default:
		return fmt.Errorf("unknown scenario %q", name)
	}
	return nil
}

func main() {
	runCmd := flag.String("run", "", "run scenario non-interactively: happy|insufficient|taken")
	flag.Parse()

	c := readCfg()

	if *runCmd != "" {
		if err := runScenario(c, *runCmd); err != nil {
			fmt.Println("error:", err)
			os.Exit(1)
		}
		return
	}

	reg := registry.New(registry.Config{SeedBalance: money.Amount(c.SeedBalanceCents)})
	p := tea.NewProgram(initialModel(c, reg))
	if _, err := p.Run(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
