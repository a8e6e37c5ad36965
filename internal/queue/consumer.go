package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    "github.com/ritmofit/booking-api/internal/mailer"
)

// StartOTPConsumer connects to RabbitMQ, declares the otp.requested
// queue (durable), and delivers each login code by email. It runs a
// reconnect loop with capped backoff and never returns under normal
// operation; processing errors are logged and the offending message is
// rejected without requeue so a poison message cannot spin the worker.
// Intended to be run on its own goroutine from main.
func StartOTPConsumer(url string, m *mailer.Mailer, logger *zap.Logger) {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            logger.Warn("otp-consumer dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := consumeOTPLoop(conn, m, logger); err != nil {
            logger.Warn("otp-consumer loop ended, reconnecting", zap.Error(err))
            _ = conn.Close()
            time.Sleep(2 * time.Second)
        }
    }
}

func consumeOTPLoop(conn *amqp.Connection, m *mailer.Mailer, logger *zap.Logger) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(10, 0, false); err != nil {
        logger.Warn("otp-consumer set QoS failed", zap.Error(err))
    }

    if _, err := ch.QueueDeclare(QueueOTPRequested, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(QueueOTPRequested, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := handleOTPMessage(d.Body, m); err != nil {
            logger.Warn("otp-consumer handle message failed", zap.Error(err))
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

func handleOTPMessage(body []byte, m *mailer.Mailer) error {
    var ev OTPRequestedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    subject, text := mailer.OTPBody(ev.Code, ev.ExpiresInMin)
    ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
    defer cancel()
    if err := m.Send(ctx, ev.Email, subject, text); err != nil {
        return fmt.Errorf("send mail to %s: %w", ev.Email, err)
    }
    return nil
}
