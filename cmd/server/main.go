package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxelgame/internal/config"
	"github.com/annel0/voxelgame/internal/eventbus"
	"github.com/annel0/voxelgame/internal/logging"
	"github.com/annel0/voxelgame/internal/storage"
	"github.com/annel0/voxelgame/internal/vec"
	"github.com/annel0/voxelgame/internal/world"
	"github.com/annel0/voxelgame/internal/world/block"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (иначе ENV GAME_CONFIG)")
	flag.Parse()

	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("Запуск сервера мира...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("Ошибка чтения конфигурации: %v", err)
		os.Exit(1)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	// === ХРАНИЛИЩЕ ЧАНКОВ ===
	var store world.ChunkStore
	if cfg.World.UseBadger {
		store, err = storage.NewBadgerStore(cfg.World.GetSavePath())
	} else {
		store, err = storage.NewFileStore(cfg.World.GetSavePath())
	}
	if err != nil {
		logging.Error("Ошибка инициализации хранилища чанков: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	// === ШИНА СОБЫТИЙ ===
	var bus eventbus.EventBus
	if cfg.EventBus.URL != "" {
		retention := time.Duration(cfg.EventBus.Retention) * time.Hour
		if retention <= 0 {
			retention = 24 * time.Hour
		}
		bus, err = eventbus.NewJetStreamBus(cfg.EventBus.URL, cfg.EventBus.Stream, retention)
		if err != nil {
			logging.Error("Ошибка подключения к NATS: %v", err)
			os.Exit(1)
		}
	} else {
		bus = eventbus.NewMemoryBus(1024)
	}
	defer bus.Close()

	if err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("LoggingListener не запущен: %v", err)
	}

	// === МЕТРИКИ ===
	metrics := world.NewMetrics()
	if cfg.Metrics.Port > 0 {
		addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			logging.Info("Prometheus /metrics доступен по адресу %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logging.Error("Ошибка HTTP сервера метрик: %v", err)
			}
		}()
	}

	// === МИР ===
	w := world.NewWorld(world.WorldOptions{
		Seed:               cfg.World.Seed,
		ActivationRange:    cfg.World.GetActivationRange(),
		DeactivationOffset: cfg.World.GetDeactivationOffset(),
		Store:              store,
		Metrics:            metrics,
		Sink:               &busEventSink{bus: bus},
	})

	logging.Info("Мир создан: радиус активации %.0f, гистерезис %.0f, сохранения в %s",
		cfg.World.GetActivationRange(), cfg.World.GetDeactivationOffset(), cfg.World.GetSavePath())

	// === ИГРОВОЙ ЦИКЛ ===
	tickRate := cfg.World.GetTickRate()
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Опорная позиция стриминга чанков. Пока в мире нет игроков,
	// наблюдатель стоит в начале координат на уровне поверхности.
	refPos := vec.Vec3Float{X: 0, Y: 0, Z: world.BaseElevation}

	logging.Info("Игровой цикл запущен: %d тиков/с", tickRate)

	for {
		select {
		case <-ticker.C:
			w.Update(refPos)
		case sig := <-stop:
			logging.Info("Получен сигнал %v, сохранение мира...", sig)
			if err := w.Flush(); err != nil {
				logging.Error("Мир сохранён с ошибками: %v", err)
			} else {
				logging.Info("Мир сохранён, активных чанков: %d", w.ActiveChunkCount())
			}
			return
		}
	}
}

// busEventSink публикует события мира в шину событий.
// Ошибки публикации не останавливают тик: события вторичны
// по отношению к симуляции.
type busEventSink struct {
	bus eventbus.EventBus
}

func (s *busEventSink) ChunkActivated(coords vec.Vec2) {
	s.publishChunkEvent(eventbus.EventChunkActivated, coords)
}

func (s *busEventSink) ChunkDeactivated(coords vec.Vec2) {
	s.publishChunkEvent(eventbus.EventChunkDeactivated, coords)
}

func (s *busEventSink) BlockChanged(blockPos vec.Vec3, oldType, newType block.TypeIndex) {
	ev, err := eventbus.NewEnvelope("world", eventbus.EventBlockChanged, 5, eventbus.BlockEventPayload{
		X:       blockPos.X,
		Y:       blockPos.Y,
		Z:       blockPos.Z,
		OldType: uint8(oldType),
		NewType: uint8(newType),
	})
	if err != nil {
		logging.Warn("Событие BlockChanged не собрано: %v", err)
		return
	}
	if err := s.bus.Publish(context.Background(), ev); err != nil {
		logging.Warn("Событие BlockChanged не опубликовано: %v", err)
	}
}

func (s *busEventSink) publishChunkEvent(eventType string, coords vec.Vec2) {
	ev, err := eventbus.NewEnvelope("world", eventType, 1, eventbus.ChunkEventPayload{
		ChunkX: coords.X,
		ChunkY: coords.Y,
	})
	if err != nil {
		logging.Warn("Событие %s не собрано: %v", eventType, err)
		return
	}
	if err := s.bus.Publish(context.Background(), ev); err != nil {
		logging.Warn("Событие %s не опубликовано: %v", eventType, err)
	}
}
