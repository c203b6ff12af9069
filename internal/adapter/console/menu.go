package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/YelzhanWeb/chocoqc/internal/adapter/logger"
	"github.com/YelzhanWeb/chocoqc/internal/app/production"
	"github.com/YelzhanWeb/chocoqc/internal/app/quality"
	"github.com/YelzhanWeb/chocoqc/internal/domain"
	"github.com/YelzhanWeb/chocoqc/internal/interfaces"
)

var (
	ErrInvalidMenuSelection = errors.New("invalid menu selection")
	errInputClosed          = errors.New("input closed")
)

const (
	optionExit = iota
	optionInspectMolded
	optionInspectPackaged
	optionCompleteProcess
	optionSimulate
	optionLastInspection
	optionReport
	optionHistory
)

// Menu is the interactive front end over the quality control and production services.
type Menu struct {
	quality    interfaces.QualityControlService
	production interfaces.ProductionService
	logger     logger.Logger
	in         io.Reader
	out        io.Writer
	lines      chan string
	startOnce  sync.Once
}

func NewMenu(quality interfaces.QualityControlService, production interfaces.ProductionService, logger logger.Logger, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		quality:    quality,
		production: production,
		logger:     logger,
		in:         in,
		out:        out,
		lines:      make(chan string),
	}
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
// A blocked prompt returns as soon as ctx is done.
func (m *Menu) Run(ctx context.Context) error {
	m.startOnce.Do(m.startReader)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.display()
		option, err := m.readOption(ctx)
		if errors.Is(err, errInputClosed) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			m.printf("Invalid option. Please select 0-7.\n")
			continue
		}

		if option == optionExit {
			m.printf("\nThank you for using the Quality Control System!\n")
			return nil
		}

		if err := m.handle(ctx, option); err != nil {
			if errors.Is(err, errInputClosed) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.logger.Error("menu_action_failed", "Menu action failed", "", map[string]interface{}{"option": option}, err)
			m.printf("Error: %v\n", err)
		}
	}
}

func (m *Menu) display() {
	m.printf("\n%s\n", strings.Repeat("=", 50))
	m.printf("    CHOCOLATE QUALITY CONTROL SYSTEM\n")
	m.printf("%s\n", strings.Repeat("=", 50))
	m.printf("1. Inspect molded chocolate\n")
	m.printf("2. Inspect packaged chocolate\n")
	m.printf("3. Complete process (molding + packaging)\n")
	m.printf("4. Simulate batch production\n")
	m.printf("5. Show last inspection\n")
	m.printf("6. Generate quality report\n")
	m.printf("7. Show inspection history\n")
	m.printf("0. Exit\n")
	m.printf("%s\n", strings.Repeat("-", 50))
	m.printf("Select an option (0-7): ")
}

func (m *Menu) handle(ctx context.Context, option int) error {
	switch option {
	case optionInspectMolded:
		id, err := m.promptBatchID(ctx, "Enter batch ID for molding: ", domain.ValidateBatchID)
		if err != nil {
			return err
		}
		c, status, err := m.production.InspectMolded(ctx, id)
		if err != nil {
			return err
		}
		m.printInspection(c, status)

	case optionInspectPackaged:
		id, err := m.promptBatchID(ctx, "Enter batch ID for packaging: ", domain.ValidateBatchID)
		if err != nil {
			return err
		}
		c, status, err := m.production.InspectPackaged(ctx, id)
		if err != nil {
			return err
		}
		m.printInspection(c, status)

	case optionCompleteProcess:
		id, err := m.promptBatchID(ctx, "Enter batch ID: ", production.ValidateProcessBatchID)
		if err != nil {
			return err
		}
		outcome, err := m.production.CompleteProcess(ctx, id)
		if err != nil {
			return err
		}
		m.printOutcome(*outcome)

	case optionSimulate:
		m.printf("Enter number of chocolates to produce: ")
		line, err := m.readLine(ctx)
		if err != nil {
			return err
		}
		quantity, err := strconv.Atoi(line)
		if err != nil {
			m.printf("Please enter a valid number.\n")
			return nil
		}
		outcomes, err := m.production.SimulateBatch(ctx, quantity)
		if errors.Is(err, domain.ErrInvalidQuantity) {
			m.printf("Quantity must be greater than 0.\n")
			return nil
		}
		if err != nil {
			return err
		}
		for _, o := range outcomes {
			m.printOutcome(o)
		}
		m.printf("\nSimulation completed: %d chocolates processed\n", len(outcomes))

	case optionLastInspection:
		last, ok := m.quality.Last()
		if !ok {
			m.printf("No inspections registered.\n")
			return nil
		}
		m.printf("%s", quality.RenderResult(last))

	case optionReport:
		m.printf("%s", m.quality.GenerateReport())

	case optionHistory:
		m.printf("%s", m.quality.ShowInspections())

	default:
		return fmt.Errorf("%w: %d", ErrInvalidMenuSelection, option)
	}
	return nil
}

func (m *Menu) readOption(ctx context.Context) (int, error) {
	line, err := m.readLine(ctx)
	if err != nil {
		return 0, err
	}
	option, err := strconv.Atoi(line)
	if err != nil || option < optionExit || option > optionHistory {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMenuSelection, line)
	}
	return option, nil
}

// promptBatchID asks until validate accepts the entered id.
func (m *Menu) promptBatchID(ctx context.Context, prompt string, validate func(string) (string, error)) (string, error) {
	for {
		m.printf("%s", prompt)
		line, err := m.readLine(ctx)
		if err != nil {
			return "", err
		}
		id, err := validate(line)
		if err == nil {
			return id, nil
		}
		m.printf("%v\n", err)
	}
}

// startReader feeds input lines to m.lines and closes it at EOF.
func (m *Menu) startReader() {
	go func() {
		defer close(m.lines)
		scanner := bufio.NewScanner(m.in)
		for scanner.Scan() {
			m.lines <- scanner.Text()
		}
	}()
}

func (m *Menu) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-m.lines:
		if !ok {
			return "", errInputClosed
		}
		return strings.TrimSpace(line), nil
	}
}

func (m *Menu) printInspection(c *domain.Chocolate, status domain.QualityStatus) {
	m.printf("\nResult for %s: %s\n", c.BatchID(), status.Label())
	if defects := c.Defects(); len(defects) > 0 {
		names := make([]string, len(defects))
		for i, d := range defects {
			names[i] = string(d)
		}
		m.printf("Defects detected: %s\n", strings.Join(names, ", "))
	}
}

func (m *Menu) printOutcome(o interfaces.ProcessOutcome) {
	m.printf("  Molding %s: %s\n", o.MoldedBatchID, o.MoldingStatus.Label())
	if !o.Packaged {
		m.printf("  Chocolate %s rejected in molding\n", o.MoldedBatchID)
		return
	}
	m.printf("  Packaging %s: %s\n", o.PackagedBatchID, o.PackagingStatus.Label())
	if o.Approved() {
		m.printf("  Final product APPROVED\n")
	} else {
		m.printf("  Product rejected in packaging\n")
	}
}

func (m *Menu) printf(format string, args ...interface{}) {
	fmt.Fprintf(m.out, format, args...)
}
