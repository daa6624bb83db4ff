package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/config"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/repository"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/seed"
	"github.com/sysu-ecnc-dev/meetup-poll/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var eventID int64
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机活动, 2: 插入随机参与者, 3: 从表格导入参与者)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&eventID, "event-id", 0, "插入参与者的活动 ID")
	flag.StringVar(&file, "file", "./internal/seed/data/participants.csv", "要导入的表格路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的活动数量")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			event := utils.GenerateRandomEvent()
			if err := repo.CreateEvent(event); err != nil {
				slog.Error("无法插入活动", slog.String("error", err.Error()))
				continue
			}

			slog.Info("已插入活动", slog.Int64("id", event.ID), slog.String("slug", event.Slug))
			cnt++
		}

		slog.Info("插入活动成功", slog.Int("count", cnt))
	case 2, 3:
		if eventID <= 0 {
			slog.Error("请输入合法的活动 ID")
			return
		}

		// 获取对应的活动
		event, err := repo.GetEventByID(eventID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				slog.Error("指定的活动不存在", slog.Int64("event_id", eventID))
			default:
				slog.Error("无法获取活动", slog.String("error", err.Error()))
			}
			return
		}

		if op == 3 {
			seed.SeedCSV(repo, event, file)
			return
		}

		if n <= 0 {
			slog.Error("请输入合法的参与者数量")
			return
		}

		// 所有随机参与者共用一个密码，为空表示不设置密码
		passwordHash := ""
		if cfg.Seed.Participant.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.Participant.Password), bcrypt.DefaultCost)
			if err != nil {
				slog.Error("无法生成密码哈希", slog.String("error", err.Error()))
				return
			}
			passwordHash = string(hash)
		}

		cnt := 0
		for i := 0; i < n; i++ {
			p := utils.GenerateRandomParticipant(event)
			p.PasswordHash = passwordHash

			// 随机名字可能重复，此时会覆盖之前的提交
			if err := repo.UpsertParticipant(p); err != nil {
				slog.Error("无法插入参与者", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入参与者成功", slog.Int("count", cnt))
	default:
		slog.Error("指定的操作非法")
	}
}
