package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/lucasmrqs/biblioteca-familiar/internal/logger"
)

// StartEmprestimoConsumer consumes emprestimo.eventos and appends each event
// to logs/emprestimos.log in a single-line format. It runs a reconnect loop
// with exponential backoff and never returns under normal operation; failed
// messages are rejected without requeue to avoid tight redelivery loops.
func StartEmprestimoConsumer() error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			logger.L().WithError(err).Warnf("consumidor de eventos: broker indisponível, nova tentativa em %s", backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn); err != nil {
			logger.L().WithError(err).Warn("consumidor de eventos: laço encerrado, reconectando")
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.L().WithError(err).Warn("consumidor de eventos: falha ao definir QoS")
	}
	if _, err := ch.QueueDeclare(emprestimoQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(emprestimoQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			logger.L().WithError(err).Warn("consumidor de eventos: mensagem descartada")
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
	var ev EmprestimoEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "emprestimos.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s | id_emprestimo=%d | livro=%q (id=%d) | membro=%q (id=%d) | tipo=%s | pontos=%d\n",
		ev.OcorridoEm, ev.TipoEvento, ev.IDEmprestimo, ev.TituloLivro, ev.IDLivro,
		ev.NomeMembro, ev.IDMembro, ev.TipoEmprestimo, ev.PontosGanhos)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
