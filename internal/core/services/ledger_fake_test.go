package services_test

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/buildra/construction_finance_app/internal/apperrors"
	"github.com/buildra/construction_finance_app/internal/core/domain"
	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
)

// fakeLedger is an in-memory LedgerStore. InTx runs the operation against a
// deep copy of the state and swaps it in only on success, so a failed
// operation leaves every balance untouched, same as a rolled back database
// transaction.
type fakeLedger struct {
	state *ledgerState
}

type ledgerState struct {
	accounts     map[string]domain.Account
	customers    map[string]domain.Customer
	suppliers    map[string]domain.Supplier
	employees    map[string]domain.Employee
	projects     map[string]domain.Project
	budgets      map[string]domain.BudgetItem // projectID + "/" + budgetItemID
	units        map[string]domain.Unit
	partners     map[string][]domain.ProjectPartner
	items        map[string]domain.InventoryItem
	expenses     map[string]domain.Expense
	invoices     map[string]domain.PurchaseInvoice
	installments map[string]domain.Installment
	salaries     []domain.SalaryPayment
	journal      []domain.JournalEntry
	counters     map[domain.CounterType]int64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{state: &ledgerState{
		accounts:     map[string]domain.Account{},
		customers:    map[string]domain.Customer{},
		suppliers:    map[string]domain.Supplier{},
		employees:    map[string]domain.Employee{},
		projects:     map[string]domain.Project{},
		budgets:      map[string]domain.BudgetItem{},
		units:        map[string]domain.Unit{},
		partners:     map[string][]domain.ProjectPartner{},
		items:        map[string]domain.InventoryItem{},
		expenses:     map[string]domain.Expense{},
		invoices:     map[string]domain.PurchaseInvoice{},
		installments: map[string]domain.Installment{},
		counters: map[domain.CounterType]int64{
			domain.CounterPurchaseInvoice: 0,
			domain.CounterWithdrawal:      0,
		},
	}}
}

var _ portsrepo.LedgerStore = (*fakeLedger)(nil)

func (l *fakeLedger) InTx(ctx context.Context, fn func(tx portsrepo.LedgerTx) error) error {
	work := l.state.clone()
	if err := fn(&fakeLedgerTx{s: work}); err != nil {
		return err
	}
	l.state = work
	return nil
}

func (s *ledgerState) clone() *ledgerState {
	out := &ledgerState{
		accounts:     cloneMap(s.accounts),
		customers:    cloneMap(s.customers),
		suppliers:    cloneMap(s.suppliers),
		employees:    cloneMap(s.employees),
		projects:     cloneMap(s.projects),
		budgets:      cloneMap(s.budgets),
		units:        cloneMap(s.units),
		partners:     map[string][]domain.ProjectPartner{},
		items:        cloneMap(s.items),
		expenses:     cloneMap(s.expenses),
		invoices:     cloneMap(s.invoices),
		installments: cloneMap(s.installments),
		salaries:     append([]domain.SalaryPayment(nil), s.salaries...),
		journal:      append([]domain.JournalEntry(nil), s.journal...),
		counters:     cloneMap(s.counters),
	}
	for k, v := range s.partners {
		out.partners[k] = append([]domain.ProjectPartner(nil), v...)
	}
	return out
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func budgetKey(projectID, budgetItemID string) string {
	return projectID + "/" + budgetItemID
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// fakeLedgerTx applies every mutation directly to the working state copy.
type fakeLedgerTx struct {
	s *ledgerState
}

var _ portsrepo.LedgerTx = (*fakeLedgerTx)(nil)

func (t *fakeLedgerTx) AccountForUpdate(ctx context.Context, accountID string) (*domain.Account, error) {
	a, ok := t.s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &a, nil
}

func (t *fakeLedgerTx) AdjustAccountBalance(ctx context.Context, accountID string, delta decimal.Decimal) error {
	a, ok := t.s.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	a.Balance = a.Balance.Add(delta)
	t.s.accounts[accountID] = a
	return nil
}

func (t *fakeLedgerTx) InsertAccount(ctx context.Context, account domain.Account) error {
	if _, exists := t.s.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	t.s.accounts[account.AccountID] = account
	return nil
}

func (t *fakeLedgerTx) AdjustCustomerBalance(ctx context.Context, customerID string, delta decimal.Decimal) error {
	c, ok := t.s.customers[customerID]
	if !ok {
		return fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
	}
	c.Balance = c.Balance.Add(delta)
	t.s.customers[customerID] = c
	return nil
}

func (t *fakeLedgerTx) AdjustSupplierBalance(ctx context.Context, supplierID string, delta decimal.Decimal) error {
	s, ok := t.s.suppliers[supplierID]
	if !ok {
		return fmt.Errorf("%w: supplier %s", apperrors.ErrNotFound, supplierID)
	}
	s.Balance = s.Balance.Add(delta)
	t.s.suppliers[supplierID] = s
	return nil
}

func (t *fakeLedgerTx) AdjustEmployeeBalance(ctx context.Context, employeeID string, field domain.EmployeeBalanceField, delta decimal.Decimal) error {
	e, ok := t.s.employees[employeeID]
	if !ok {
		return fmt.Errorf("%w: employee %s", apperrors.ErrNotFound, employeeID)
	}
	switch field {
	case domain.EmployeeAdvance:
		e.AdvanceBalance = e.AdvanceBalance.Add(delta)
	case domain.EmployeeCustody:
		e.CustodyBalance = e.CustodyBalance.Add(delta)
	case domain.EmployeeReward:
		e.RewardBalance = e.RewardBalance.Add(delta)
	default:
		return fmt.Errorf("unknown employee balance field %q", field)
	}
	t.s.employees[employeeID] = e
	return nil
}

func (t *fakeLedgerTx) AdjustProjectTotals(ctx context.Context, projectID string, delta domain.ProjectTotalsDelta) error {
	p, ok := t.s.projects[projectID]
	if !ok {
		return fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
	}
	p.Spent = p.Spent.Add(delta.Spent)
	p.CollectedFromSales = p.CollectedFromSales.Add(delta.CollectedFromSales)
	p.CollectedFromPartners = p.CollectedFromPartners.Add(delta.CollectedFromPartners)
	t.s.projects[projectID] = p
	return nil
}

func (t *fakeLedgerTx) AdjustBudgetSpent(ctx context.Context, projectID, budgetItemID string, delta decimal.Decimal) error {
	key := budgetKey(projectID, budgetItemID)
	b, ok := t.s.budgets[key]
	if !ok {
		return fmt.Errorf("%w: budget item %s", apperrors.ErrNotFound, budgetItemID)
	}
	b.SpentAmount = b.SpentAmount.Add(delta)
	t.s.budgets[key] = b
	return nil
}

func (t *fakeLedgerTx) InsertProject(ctx context.Context, project domain.Project) error {
	t.s.projects[project.ProjectID] = project
	return nil
}

func (t *fakeLedgerTx) InsertBudgetItems(ctx context.Context, items []domain.BudgetItem) error {
	for _, item := range items {
		t.s.budgets[budgetKey(item.ProjectID, item.BudgetItemID)] = item
	}
	return nil
}

func (t *fakeLedgerTx) UpdateUnitSale(ctx context.Context, unit domain.Unit) error {
	if _, ok := t.s.units[unit.UnitID]; !ok {
		return fmt.Errorf("%w: unit %s", apperrors.ErrNotFound, unit.UnitID)
	}
	t.s.units[unit.UnitID] = unit
	return nil
}

func (t *fakeLedgerTx) ReplaceProjectPartners(ctx context.Context, projectID string, partners []domain.ProjectPartner) error {
	t.s.partners[projectID] = append([]domain.ProjectPartner(nil), partners...)
	return nil
}

func (t *fakeLedgerTx) ItemForUpdate(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	i, ok := t.s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: inventory item %s", apperrors.ErrNotFound, itemID)
	}
	return &i, nil
}

func (t *fakeLedgerTx) ApplyStock(ctx context.Context, itemID string, stockDelta, newAverageCost decimal.Decimal, lastPurchasePrice *decimal.Decimal) error {
	i, ok := t.s.items[itemID]
	if !ok {
		return fmt.Errorf("%w: inventory item %s", apperrors.ErrNotFound, itemID)
	}
	i.Stock = i.Stock.Add(stockDelta)
	i.AverageCost = newAverageCost
	if lastPurchasePrice != nil {
		price := *lastPurchasePrice
		i.LastPurchasePrice = &price
	}
	t.s.items[itemID] = i
	return nil
}

func (t *fakeLedgerTx) InsertExpense(ctx context.Context, expense domain.Expense) error {
	t.s.expenses[expense.ExpenseID] = expense
	return nil
}

func (t *fakeLedgerTx) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	if _, ok := t.s.expenses[expense.ExpenseID]; !ok {
		return fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expense.ExpenseID)
	}
	t.s.expenses[expense.ExpenseID] = expense
	return nil
}

func (t *fakeLedgerTx) DeleteExpense(ctx context.Context, expenseID string) error {
	if _, ok := t.s.expenses[expenseID]; !ok {
		return fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
	}
	delete(t.s.expenses, expenseID)
	return nil
}

func (t *fakeLedgerTx) InsertInvoice(ctx context.Context, invoice domain.PurchaseInvoice) error {
	t.s.invoices[invoice.InvoiceID] = invoice
	return nil
}

func (t *fakeLedgerTx) InsertInstallments(ctx context.Context, rows []domain.Installment) error {
	for _, row := range rows {
		t.s.installments[row.InstallmentID] = row
	}
	return nil
}

func (t *fakeLedgerTx) DeleteInstallmentsByUnit(ctx context.Context, unitID string) error {
	for id, row := range t.s.installments {
		if row.UnitID == unitID {
			delete(t.s.installments, id)
		}
	}
	return nil
}

func (t *fakeLedgerTx) MarkInstallmentPaid(ctx context.Context, installmentID, accountID, actorID string, paidAt time.Time) error {
	row, ok := t.s.installments[installmentID]
	if !ok {
		return fmt.Errorf("%w: installment %s", apperrors.ErrNotFound, installmentID)
	}
	if row.Status != domain.InstallmentPending {
		return fmt.Errorf("%w: installment %s is not pending", apperrors.ErrConflict, installmentID)
	}
	row.Status = domain.InstallmentPaid
	row.PaidAt = &paidAt
	row.AccountID = &accountID
	row.Touch(actorID, paidAt)
	t.s.installments[installmentID] = row
	return nil
}

func (t *fakeLedgerTx) InsertSalaryPayments(ctx context.Context, rows []domain.SalaryPayment) error {
	t.s.salaries = append(t.s.salaries, rows...)
	return nil
}

func (t *fakeLedgerTx) AppendJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	t.s.journal = append(t.s.journal, entry)
	return nil
}

func (t *fakeLedgerTx) NextSequence(ctx context.Context, counter domain.CounterType) (int64, error) {
	if _, ok := t.s.counters[counter]; !ok {
		return 0, fmt.Errorf("%w: counter %s", apperrors.ErrNotFound, counter)
	}
	t.s.counters[counter]++
	return t.s.counters[counter], nil
}

// --- read-side fakes backed by the same state ---

type fakeProjectRepo struct{ l *fakeLedger }

var _ portsrepo.ProjectRepository = (*fakeProjectRepo)(nil)

func (r *fakeProjectRepo) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	p, ok := r.l.state.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
	}
	return &p, nil
}

func (r *fakeProjectRepo) ListProjects(ctx context.Context, limit, offset int) ([]domain.Project, error) {
	out := make([]domain.Project, 0, len(r.l.state.projects))
	for _, p := range r.l.state.projects {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProjectRepo) FindBudgetItem(ctx context.Context, projectID, budgetItemID string) (*domain.BudgetItem, error) {
	b, ok := r.l.state.budgets[budgetKey(projectID, budgetItemID)]
	if !ok {
		return nil, fmt.Errorf("%w: budget item %s", apperrors.ErrNotFound, budgetItemID)
	}
	return &b, nil
}

func (r *fakeProjectRepo) FindUnit(ctx context.Context, projectID, unitID string) (*domain.Unit, error) {
	u, ok := r.l.state.units[unitID]
	if !ok || u.ProjectID != projectID {
		return nil, fmt.Errorf("%w: unit %s", apperrors.ErrNotFound, unitID)
	}
	return &u, nil
}

func (r *fakeProjectRepo) ListUnits(ctx context.Context, projectID string) ([]domain.Unit, error) {
	var out []domain.Unit
	for _, u := range r.l.state.units {
		if u.ProjectID == projectID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) ListPartners(ctx context.Context, projectID string) ([]domain.ProjectPartner, error) {
	return r.l.state.partners[projectID], nil
}

func (r *fakeProjectRepo) InsertUnit(ctx context.Context, unit domain.Unit) error {
	r.l.state.units[unit.UnitID] = unit
	return nil
}

type fakePartyRepo struct{ l *fakeLedger }

var _ portsrepo.PartyRepository = (*fakePartyRepo)(nil)

func (r *fakePartyRepo) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	c, ok := r.l.state.customers[customerID]
	if !ok {
		return nil, fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
	}
	return &c, nil
}

func (r *fakePartyRepo) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	r.l.state.customers[customer.CustomerID] = customer
	return nil
}

func (r *fakePartyRepo) ListCustomers(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, c := range r.l.state.customers {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakePartyRepo) FindSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	s, ok := r.l.state.suppliers[supplierID]
	if !ok {
		return nil, fmt.Errorf("%w: supplier %s", apperrors.ErrNotFound, supplierID)
	}
	return &s, nil
}

func (r *fakePartyRepo) SaveSupplier(ctx context.Context, supplier domain.Supplier) error {
	r.l.state.suppliers[supplier.SupplierID] = supplier
	return nil
}

func (r *fakePartyRepo) ListSuppliers(ctx context.Context, limit, offset int) ([]domain.Supplier, error) {
	var out []domain.Supplier
	for _, s := range r.l.state.suppliers {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakePartyRepo) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	e, ok := r.l.state.employees[employeeID]
	if !ok {
		return nil, fmt.Errorf("%w: employee %s", apperrors.ErrNotFound, employeeID)
	}
	return &e, nil
}

func (r *fakePartyRepo) FindEmployeesByIDs(ctx context.Context, employeeIDs []string) (map[string]domain.Employee, error) {
	out := make(map[string]domain.Employee, len(employeeIDs))
	for _, id := range employeeIDs {
		if e, ok := r.l.state.employees[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func (r *fakePartyRepo) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	r.l.state.employees[employee.EmployeeID] = employee
	return nil
}

func (r *fakePartyRepo) ListEmployees(ctx context.Context, limit, offset int) ([]domain.Employee, error) {
	var out []domain.Employee
	for _, e := range r.l.state.employees {
		out = append(out, e)
	}
	return out, nil
}

type fakeExpenseRepo struct{ l *fakeLedger }

var _ portsrepo.ExpenseRepository = (*fakeExpenseRepo)(nil)

func (r *fakeExpenseRepo) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	e, ok := r.l.state.expenses[expenseID]
	if !ok {
		return nil, fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
	}
	return &e, nil
}

func (r *fakeExpenseRepo) ListExpensesByProject(ctx context.Context, projectID string, limit, offset int) ([]domain.Expense, error) {
	var out []domain.Expense
	for _, e := range r.l.state.expenses {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakePurchaseRepo struct{ l *fakeLedger }

var _ portsrepo.PurchaseRepository = (*fakePurchaseRepo)(nil)

func (r *fakePurchaseRepo) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.PurchaseInvoice, error) {
	inv, ok := r.l.state.invoices[invoiceID]
	if !ok {
		return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
	}
	return &inv, nil
}

func (r *fakePurchaseRepo) ListInvoicesBySupplier(ctx context.Context, supplierID string, limit, offset int) ([]domain.PurchaseInvoice, error) {
	var out []domain.PurchaseInvoice
	for _, inv := range r.l.state.invoices {
		if inv.SupplierID == supplierID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *fakePurchaseRepo) FindItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	i, ok := r.l.state.items[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: inventory item %s", apperrors.ErrNotFound, itemID)
	}
	return &i, nil
}

func (r *fakePurchaseRepo) SaveItem(ctx context.Context, item domain.InventoryItem) error {
	r.l.state.items[item.ItemID] = item
	return nil
}

func (r *fakePurchaseRepo) ListItems(ctx context.Context, limit, offset int) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	for _, i := range r.l.state.items {
		out = append(out, i)
	}
	return out, nil
}

type fakeInstallmentRepo struct{ l *fakeLedger }

var _ portsrepo.InstallmentRepository = (*fakeInstallmentRepo)(nil)

func (r *fakeInstallmentRepo) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	row, ok := r.l.state.installments[installmentID]
	if !ok {
		return nil, fmt.Errorf("%w: installment %s", apperrors.ErrNotFound, installmentID)
	}
	return &row, nil
}

func (r *fakeInstallmentRepo) ListInstallmentsByUnit(ctx context.Context, unitID string) ([]domain.Installment, error) {
	var out []domain.Installment
	for _, row := range r.l.state.installments {
		if row.UnitID == unitID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeInstallmentRepo) ListInstallmentsByCustomer(ctx context.Context, customerID string) ([]domain.Installment, error) {
	var out []domain.Installment
	for _, row := range r.l.state.installments {
		if row.CustomerID == customerID {
			out = append(out, row)
		}
	}
	return out, nil
}

// nopAudit satisfies the audit facade without recording anything.
type nopAudit struct{}

func (nopAudit) Record(ctx context.Context, record domain.AuditRecord) {}

func (nopAudit) List(ctx context.Context, limit, offset int) ([]domain.AuditRecord, error) {
	return nil, nil
}

// --- seed helpers ---

func seedAccount(l *fakeLedger, id, name string, balance decimal.Decimal) {
	l.state.accounts[id] = domain.Account{
		AccountID: id, Name: name, Kind: domain.Treasury, Balance: balance, IsActive: true,
	}
}

func seedProjectWithBudget(l *fakeLedger, projectID, fundAccountID, budgetItemID string) {
	l.state.projects[projectID] = domain.Project{
		ProjectID:     projectID,
		Name:          "Tower A",
		FundAccountID: fundAccountID,
	}
	l.state.budgets[budgetKey(projectID, budgetItemID)] = domain.BudgetItem{
		BudgetItemID:    budgetItemID,
		ProjectID:       projectID,
		Name:            "Concrete works",
		AllocatedAmount: decimal.NewFromInt(1000000),
	}
}

func seedUnit(l *fakeLedger, unitID, projectID string, status domain.UnitStatus) {
	l.state.units[unitID] = domain.Unit{
		UnitID:         unitID,
		ProjectID:      projectID,
		Code:           "A-101",
		Status:         status,
		SuggestedPrice: decimal.NewFromInt(100000),
	}
}

func seedCustomer(l *fakeLedger, id, name string) {
	l.state.customers[id] = domain.Customer{CustomerID: id, Name: name}
}

func seedSupplier(l *fakeLedger, id, name string) {
	l.state.suppliers[id] = domain.Supplier{SupplierID: id, Name: name}
}

func seedEmployee(l *fakeLedger, id, name string, salary decimal.Decimal) {
	l.state.employees[id] = domain.Employee{EmployeeID: id, Name: name, Salary: salary, IsActive: true}
}

func seedItem(l *fakeLedger, id, name string, stock, avgCost decimal.Decimal, lastPrice *decimal.Decimal) {
	l.state.items[id] = domain.InventoryItem{
		ItemID: id, Name: name, Unit: "ton", Stock: stock, AverageCost: avgCost, LastPurchasePrice: lastPrice,
	}
}
