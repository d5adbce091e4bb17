package handlers

import (
	"tactics-server/internal/domain"
)

// Controller - то, что хендлеру позволено делать с боем.
// engine.Battle неявно реализует этот интерфейс.
type Controller interface {
	Turn() domain.Team
	Unit(id domain.UnitID) *domain.Unit
	Select(id domain.UnitID) error
	ClearSelection()
	Click(p domain.Position) (intent string, cmd *domain.Command)
	IssueMove(id domain.UnitID, to domain.Position) (domain.Command, error)
	IssueAttack(id domain.UnitID, target domain.Position) (domain.Command, error)
	EndTurn() domain.Team
}

// Context передает хендлеру бой и того, от чьего имени пришла команда.
type Context struct {
	Battle Controller
	Actor  domain.UnitID // NilUnitID, если клиент не представился
}

// Result - возвращает результат обработки намерения.
// Хендлер НЕ пишет клиентам напрямую, он возвращает данные.
type Result struct {
	Msg      string          // Текст лога
	MsgType  string          // Тип лога (INFO, ERROR)
	Command  *domain.Command // Команда, поставленная в очередь
	Snapshot bool            // Клиенту нужен полный слепок
}

// HandlerFunc - это контракт для любого намерения (MOVE, ATTACK, CLICK, ...).
type HandlerFunc func(ctx Context, payload []byte) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}

// ErrorResult - отказ, о котором стоит сообщить клиенту
func ErrorResult(msg string) Result {
	return Result{Msg: msg, MsgType: "ERROR"}
}

// ActorUnit возвращает живой юнит актора, если сейчас ход его стороны
func ActorUnit(ctx Context) (*domain.Unit, string) {
	if ctx.Actor.IsNil() {
		return nil, "Unit token is required"
	}
	u := ctx.Battle.Unit(ctx.Actor)
	if !u.IsAlive() {
		return nil, domain.ReasonUnitNotFound
	}
	if u.Team != ctx.Battle.Turn() {
		return nil, "Not your turn"
	}
	return u, ""
}
