package main

import (
	"io"
	"log"
	"os"
	"path"
	"time"

	"accesscrate/src/boot"
	"accesscrate/src/config"
	"accesscrate/src/lifecycle"
	"accesscrate/src/middlewares"
	"accesscrate/src/types"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const apiPrefix = "/api"

var calendarDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	return err == nil
}

var bookableDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	today := lifecycle.Midnight(time.Now().UTC())
	return !lifecycle.Midnight(datetime).Before(today)
}

// lteDateValidatorFunc checks the tagged field is on or before the sibling
// field named by the tag param.
var lteDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	field := fl.Parent().FieldByName(fl.Param())
	fieldValue, ok := field.Interface().(string)
	if !ok {
		return false
	}
	fielddatetime, err := time.Parse(config.DATE_PARSE_FORMAT, fieldValue)
	if err != nil {
		return false
	}
	return !datetime.After(fielddatetime)
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("calendardate", calendarDateValidatorFunc)
		v.RegisterValidation("bookabledate", bookableDateValidatorFunc)
		v.RegisterValidation("ltedate", lteDateValidatorFunc)
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()

	public := router.Group(apiPrefix)
	public = authHandlers(public)
	public = eventHandlers(public)
	public = organizerHandlers(public)
	esewaCallbackHandlers(public)

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	authorized = profileHandlers(authorized)
	paymentHandlers(authorized)

	admin := router.Group(apiPrefix + "/admin")
	admin.Use(middlewares.AuthMiddleware, middlewares.RequireRole(types.ROLE_ORGANIZER))
	admin = adminEventHandlers(admin)
	adminTicketHandlers(admin)

	superadmin := router.Group(apiPrefix + "/superadmin")
	superadmin.Use(middlewares.AuthMiddleware, middlewares.RequireRole(types.ROLE_SUPER_ADMIN))
	superAdminHandlers(superadmin)

	return router
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	boot.InitDb()
	boot.InitScheduler()

	registerValidators()

	router := setupRouter()

	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOriginFunc = func(origin string) bool {
			return origin == config.GetFrontendURL()
		}
		cc.AllowCredentials = true
		cc.AllowAllOrigins = false
		router.Use(cors.New(cc))
	}

	if err := router.Run(":9090"); err != nil {
		log.Fatalf("Error starting server: %s", err.Error())
	}
}
