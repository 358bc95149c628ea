package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/medconnect/scheduling/internal/config"
	"github.com/medconnect/scheduling/pkg/core/model"
	"github.com/medconnect/scheduling/pkg/core/services"
	"github.com/medconnect/scheduling/pkg/db"
)

// AppContext holds the application dependencies shared across all commands.
// Composer and Selection live for the whole process so the interactive
// session can stage shifts and build selections across commands.
type AppContext struct {
	Cfg       *config.Config
	Store     db.Store
	Composer  *services.ShiftComposer
	Selection *services.SelectionSet
	Logger    *zap.Logger
	Ctx       context.Context
	Today     func() model.Date
}
